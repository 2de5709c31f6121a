package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/freelancehub/pkg/api"
)

func validJob() api.JobRequest {
	return api.JobRequest{
		Title:        "Landing page",
		Description:  "One page site",
		Type:         "one-time",
		Rate:         "fixed",
		Amount:       500,
		Length:       "<1",
		HoursPerWeek: "<10",
		Skills:       []int{1, 2},
	}
}

func TestValidateJob(t *testing.T) {
	tests := []struct {
		mutate func(j *api.JobRequest)
		name   string
		errMsg string
	}{
		{name: "valid", mutate: func(j *api.JobRequest) {}},
		{name: "empty title", mutate: func(j *api.JobRequest) { j.Title = " " }, errMsg: "title is required"},
		{name: "long title", mutate: func(j *api.JobRequest) { j.Title = "0123456789012345678901234567890" }, errMsg: "must not exceed 30"},
		{name: "empty description", mutate: func(j *api.JobRequest) { j.Description = "" }, errMsg: "description is required"},
		{name: "bad type", mutate: func(j *api.JobRequest) { j.Type = "forever" }, errMsg: "invalid job type"},
		{name: "bad rate", mutate: func(j *api.JobRequest) { j.Rate = "daily" }, errMsg: "invalid rate"},
		{name: "bad length", mutate: func(j *api.JobRequest) { j.Length = "24+" }, errMsg: "invalid length"},
		{name: "bad hours", mutate: func(j *api.JobRequest) { j.HoursPerWeek = "60-80" }, errMsg: "invalid hours per week"},
		{name: "zero amount", mutate: func(j *api.JobRequest) { j.Amount = 0 }, errMsg: "amount must be between 1 and 1000000"},
		{
			name:   "hourly amount over limit",
			mutate: func(j *api.JobRequest) { j.Rate = "hourly"; j.Amount = 1001 },
			errMsg: "amount must be between 1 and 1000 for hourly rate",
		},
		{name: "fixed amount at limit", mutate: func(j *api.JobRequest) { j.Amount = MaxFixedAmount }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(&job)

			err := ValidateJob(job)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateReview(t *testing.T) {
	assert.NoError(t, ValidateReview(api.ReviewApplicationRequest{Status: "accepted"}))
	assert.NoError(t, ValidateReview(api.ReviewApplicationRequest{Status: "rejected", RejectionReason: "no budget"}))
	assert.Error(t, ValidateReview(api.ReviewApplicationRequest{Status: "accepted", RejectionReason: "x"}))
	assert.Error(t, ValidateReview(api.ReviewApplicationRequest{Status: "pending"}))
}
