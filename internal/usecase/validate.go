package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/careerscan/internal/entity"
)

var validate = validator.New()

// ValidateRun checks the crawl inputs before any round executes. It returns an
// *entity.ConfigError listing every problem found.
func ValidateRun(seeds []entity.SeedEntry, batchSize int) error {
	var problems []string
	if batchSize < 1 {
		problems = append(problems, fmt.Sprintf("batch size must be at least 1, got %d", batchSize))
	}

	for i, seed := range seeds {
		err := validate.Struct(seed)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems = append(problems, fmt.Sprintf("seed %d: %v", i+1, err))
			continue
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("seed %d: %s failed %q validation", i+1, strings.ToLower(fe.Field()), fe.Tag()))
		}
	}

	if len(problems) > 0 {
		return &entity.ConfigError{Problems: problems}
	}
	return nil
}
