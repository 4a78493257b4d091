package github

import "time"

// Issue is a GitHub issue as returned by the collector (pull requests are excluded).
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Labels    []Label   `json:"labels"`
}

type Label struct {
	Name string `json:"name"`
}

// LabelNames returns the label names of is in order.
func (is Issue) LabelNames() []string {
	res := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		res = append(res, l.Name)
	}
	return res
}
