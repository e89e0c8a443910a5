package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/econograph/backend/pkg/common"
	"github.com/econograph/backend/pkg/logger"
)

// Decode parses the raw scraped dataset. The input is a JSON array of
// person records; relation fields in any of their historical shapes
// (absent, null, scalar, list) decode through common.NameList.
func Decode(data []byte) ([]common.Person, error) {
	var records []common.Person
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return records, nil
}

// Sanitize validates and repairs raw records. A record without an
// identifier, a display name, or a birth instant is dropped: the pipeline
// has no use for a record it cannot graph, name, or date. Relation lists
// are stripped of empty entries. Everything else is preserved as given,
// including malformed URLs.
func Sanitize(records []common.Person) []common.Person {
	out := make([]common.Person, 0, len(records))
	dropped := 0

	for _, r := range records {
		if r.ID == "" || strings.TrimSpace(r.Name) == "" || r.Born == nil {
			dropped++
			continue
		}

		r.Influences = stripEmpty(r.Influences)
		r.DoctoralAdvisors = stripEmpty(r.DoctoralAdvisors)
		r.DoctoralStudents = stripEmpty(r.DoctoralStudents)

		out = append(out, r)
	}

	if dropped > 0 {
		logger.Debug("[Dataset] Dropped invalid records", "count", dropped)
	}

	return out
}

func stripEmpty(names common.NameList) common.NameList {
	if len(names) == 0 {
		return common.NameList{}
	}
	out := make(common.NameList, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
