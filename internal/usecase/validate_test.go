package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/careerscan/internal/entity"
)

func TestValidateRun(t *testing.T) {
	seeds := []entity.SeedEntry{{Organization: "Acme", URL: "https://acme.example/jobs"}}
	assert.NoError(t, ValidateRun(seeds, 1))
	assert.NoError(t, ValidateRun(nil, 3))
}

func TestValidateRun_CollectsProblems(t *testing.T) {
	seeds := []entity.SeedEntry{
		{Organization: "Acme", URL: "https://acme.example/jobs"},
		{Organization: "", URL: "https://beta.example"},
		{Organization: "Gamma", URL: "not a url"},
	}

	err := ValidateRun(seeds, 0)
	require.Error(t, err)

	var cfgErr *entity.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{
		"batch size must be at least 1, got 0",
		`seed 2: organization failed "required" validation`,
		`seed 3: url failed "url" validation`,
	}, cfgErr.Problems)
}
