package tasksource

import "fmt"

// ProjectItem is one row of a GitHub Projects board, reduced to the two
// single-select fields the nudge policy cares about (§4.5 "GitHub shape").
type ProjectItem struct {
	Lane        string
	Status      string // "backlog" | "in_progress" | "done"
	ID          string
	Description string
}

// GraphQLClient is the narrow interface GitHubSource needs. A concrete
// client (auth, pagination, rate-limit backoff) is out of core scope; core
// only needs something that can hand back the current board items.
type GraphQLClient interface {
	ProjectItems() ([]ProjectItem, error)
}

// GitHubSource loads a TaskSnapshot by grouping a project board's items by
// (lane, status).
type GitHubSource struct {
	Client GraphQLClient
}

// NewGitHubSource returns a source backed by client.
func NewGitHubSource(client GraphQLClient) *GitHubSource {
	return &GitHubSource{Client: client}
}

// Load fetches the current board and groups items into lanes.
func (s *GitHubSource) Load() (TaskSnapshot, error) {
	items, err := s.Client.ProjectItems()
	if err != nil {
		return TaskSnapshot{}, &TaskSourceError{Kind: ErrorKindNetwork, Err: fmt.Errorf("github project items: %w", err)}
	}

	lanes := make(map[string]LaneTasks)
	for _, item := range items {
		lane := lanes[item.Lane]
		entry := TaskEntry{ID: item.ID, Description: item.Description}
		switch item.Status {
		case "backlog":
			lane.Backlog = append(lane.Backlog, entry)
		case "in_progress":
			lane.InProgress = append(lane.InProgress, entry)
		case "done":
			lane.Done = append(lane.Done, entry)
		default:
			return TaskSnapshot{}, &TaskSourceError{
				Kind: ErrorKindParse,
				Err:  fmt.Errorf("item %s: unrecognized status %q", item.ID, item.Status),
			}
		}
		lanes[item.Lane] = lane
	}

	return TaskSnapshot{Lanes: lanes}, nil
}
