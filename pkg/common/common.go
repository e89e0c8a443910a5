package common

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexID is a record identifier that accepts both JSON strings and JSON
// numbers on input. Scraped knowledge-base keys arrive in either shape
// depending on the exporter version.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*id = FlexID(asString)
		return nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	*id = FlexID(asNumber.String())
	return nil
}

func (id FlexID) String() string {
	return string(id)
}

// NameList is a relation field holding referenced person names. The raw
// dataset is inconsistent: the field may be absent, null, a single string,
// or a list of strings. All shapes decode to a flat list so downstream
// code never has to branch on the input shape again.
type NameList []string

func (l *NameList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = NameList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = NameList(many)
	return nil
}

// Person is a biographical record for one economist as produced by the
// scraping layer. Born and Died are Unix epoch seconds; negative values
// are valid (pre-1970 dates) and nil means unknown. The relation fields
// reference other persons by display name, not by identifier.
type Person struct {
	ID   FlexID `json:"pageid"`
	Name string `json:"name"`
	Born *int64 `json:"born"`
	Died *int64 `json:"died"`
	Img  string `json:"img"`
	URL  string `json:"url"`

	Influences       NameList `json:"influences"`
	DoctoralAdvisors NameList `json:"doctoral_advisors"`
	DoctoralStudents NameList `json:"doctoral_students"`
}

// GraphNode is one person in the serialized output graph. Relation lists
// are resolved to record identifiers; names that could not be resolved to
// a record in the dataset are omitted.
type GraphNode struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	School string  `json:"school"`
	Score  float64 `json:"score"`
	Born   *int64  `json:"born"`
	Died   *int64  `json:"died"`
	Img    string  `json:"img,omitempty"`
	URL    string  `json:"url,omitempty"`

	AdvisorIDs      []string `json:"advisorIds"`
	StudentIDs      []string `json:"studentIds"`
	InfluencedByIDs []string `json:"influencedByIds"`
}

// GraphLink is a directed edge in the serialized output graph. The edge
// points from the intellectually downstream party (student, influenced)
// toward the antecedent (advisor, influence).
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphExport is the final serialized graph handed to persistence.
// Schools lists the school labels actually observed on the nodes.
type GraphExport struct {
	Nodes   []GraphNode `json:"nodes"`
	Links   []GraphLink `json:"links"`
	Schools []string    `json:"schools"`
}

// Build statuses as stored and reported over the API.
const (
	BuildQueued  = "queued"
	BuildRunning = "running"
	BuildDone    = "done"
	BuildFailed  = "failed"
)

// Build is one pipeline run. DatasetKey names the input file in object
// storage; Error is set only when Status is BuildFailed.
type Build struct {
	ID         string     `json:"id"`
	DatasetKey string     `json:"dataset_key"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// FormatInstant renders an epoch-seconds instant as a UTC date string for
// logs and diagnostics. Nil renders as "unknown".
func FormatInstant(epoch *int64) string {
	if epoch == nil {
		return "unknown"
	}
	return time.Unix(*epoch, 0).UTC().Format("2006-01-02")
}

// ParseInstant parses a decimal epoch-seconds string into an instant.
func ParseInstant(s string) (*int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
