package jobs

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Jobs []*Job `yaml:"jobs"`
}

// LoadCatalog reads a job catalog from a YAML file. The returned list is the
// process-wide source of truth and is never mutated; scoring works on copies.
func LoadCatalog(path string) (*List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return parseCatalog(data)
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*List, error) {
	return parseCatalog(defaultCatalog)
}

func parseCatalog(data []byte) (*List, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	if len(file.Jobs) == 0 {
		return nil, fmt.Errorf("catalog contains no jobs")
	}

	seen := make(map[string]bool, len(file.Jobs))
	for _, job := range file.Jobs {
		if job.ID == "" {
			return nil, fmt.Errorf("catalog job %q has no id", job.Title)
		}
		if seen[job.ID] {
			return nil, fmt.Errorf("duplicate job id %q in catalog", job.ID)
		}
		seen[job.ID] = true

		switch job.EmploymentType {
		case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentInternship:
		default:
			return nil, fmt.Errorf("job %q has unknown employment type %q", job.ID, job.EmploymentType)
		}

		if job.MinExperience < 0 {
			return nil, fmt.Errorf("job %q has negative min experience", job.ID)
		}
	}

	return &List{Items: file.Jobs}, nil
}
