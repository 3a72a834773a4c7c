package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"scanshelf/internal/config"
	"scanshelf/internal/services"
)

// Requirement defines an external dependency scanshelf relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the subprocess tools the configured backends need. A
// builtin backend turns its tool into an optional requirement.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ImageMagick mogrify",
			Command:     cfg.MogrifyBinary(),
			Description: "Renders page thumbnails",
			Optional:    !cfg.UsesExternalThumbnailer(),
		},
		{
			Name:        "Info-ZIP zip",
			Command:     cfg.ZipBinary(),
			Description: "Packs the generated site",
			Optional:    !cfg.UsesExternalArchiver(),
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Require fails when a non-optional requirement is unavailable.
func Require(statuses []Status) error {
	var missing []string
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrExternalTool, "deps", "check",
		"missing subprocess tool: "+strings.Join(missing, ", ")+"; install it or select the builtin backend in [tools]", nil)
}
