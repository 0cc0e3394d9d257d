package tasksource

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLSource loads a TaskSnapshot from a tasks.yaml file on disk. The
// watcher (internal/nudge) is responsible for deciding when to call Load;
// this type only knows how to parse.
type YAMLSource struct {
	Path string
}

// NewYAMLSource returns a source reading from path.
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{Path: path}
}

// Load reads and parses the YAML file. Known top-level non-lane keys are
// excluded from the returned Lanes map.
func (s *YAMLSource) Load() (TaskSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return TaskSnapshot{}, &TaskSourceError{Kind: ErrorKindNotFound, Err: err}
		}
		return TaskSnapshot{}, &TaskSourceError{Kind: ErrorKindParse, Err: err}
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return TaskSnapshot{}, &TaskSourceError{Kind: ErrorKindParse, Err: fmt.Errorf("parse %s: %w", s.Path, err)}
	}

	lanes := make(map[string]LaneTasks)
	for key, node := range raw {
		if key == "worker_protocol" || key == "rules" || key == "global_backlog" {
			continue
		}
		var lane LaneTasks
		if err := node.Decode(&lane); err != nil {
			return TaskSnapshot{}, &TaskSourceError{
				Kind: ErrorKindParse,
				Err:  fmt.Errorf("parse %s: lane %q: %w", s.Path, key, err),
			}
		}
		lanes[key] = lane
	}

	sum := sha256.Sum256(data)
	return TaskSnapshot{
		Lanes:         lanes,
		ModifiedToken: hex.EncodeToString(sum[:]),
	}, nil
}
