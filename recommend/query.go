package recommend

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Strategy selects how candidates are retrieved
type Strategy string

// Retrieval strategies
const (
	StrategySimilar  Strategy = "similar"
	StrategyDiscover Strategy = "discover"
	StrategyAI       Strategy = "ai"
)

// Result count choices offered by the UI
var MaxResultsOptions = []int{10, 20, 50, 100}

// DefaultMaxResults is the result cap used when none is chosen
const DefaultMaxResults = 20

// DiscoverQuery holds the filters of the discovery strategy
type DiscoverQuery struct {
	Genres         []string `json:"genres"`
	Year           int      `json:"year,omitempty" validate:"omitempty,min=1874,max=2100"`
	Certifications []string `json:"certifications" validate:"dive,oneof=G PG PG-13 R NC-17"`
	SortBy         string   `json:"sort_by,omitempty" validate:"omitempty,oneof=popularity.desc popularity.asc vote_average.desc vote_average.asc release_date.desc release_date.asc title.asc title.desc"`
	Page           int      `json:"page,omitempty" validate:"omitempty,min=1,max=500"`
}

// Query is a complete recommendation request: a strategy with its input
// plus the filter stage thresholds.
type Query struct {
	Strategy    Strategy      `json:"strategy" validate:"oneof=similar discover ai"`
	Title       string        `json:"title,omitempty" validate:"required_if=Strategy similar"`
	Description string        `json:"description,omitempty" validate:"required_if=Strategy ai"`
	Discover    DiscoverQuery `json:"discover"`
	MinRating   float64       `json:"min_rating" validate:"min=0,max=10"`
	MaxResults  int           `json:"max_results" validate:"min=0,max=100"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the query and returns a readable error for the first
// failing fields.
func (q *Query) Validate() error {
	q.Title = strings.TrimSpace(q.Title)
	q.Description = strings.TrimSpace(q.Description)
	return describe(getValidator().Struct(q))
}

// ValidateStruct validates any struct carrying validate tags
func ValidateStruct(s interface{}) error {
	return describe(getValidator().Struct(s))
}

func describe(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
