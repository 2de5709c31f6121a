package cli

import (
	"fmt"

	"github.com/iudanet/freelancehub/internal/models"
)

func (c *Cli) printJobs(jobs []models.Job) {
	c.io.Printf("Found %d job(s):\n", len(jobs))
	c.io.Println()
	for i, job := range jobs {
		c.io.Printf("%d. %s\n", i+1, job.Title)
		c.io.Printf("   ID:     %d\n", job.ID)
		c.io.Printf("   Status: %s\n", job.Status)
		c.io.Printf("   Pay:    %s\n", jobPay(job))
		if job.ApplicationCount > 0 {
			c.io.Printf("   Applications: %d\n", job.ApplicationCount)
		}
		c.io.Println()
	}
}

func (c *Cli) printJob(job *models.Job) {
	c.io.Printf("=== %s ===\n", job.Title)
	c.io.Println()
	c.io.Printf("ID:       %d\n", job.ID)
	c.io.Printf("Status:   %s\n", job.Status)
	c.io.Printf("Type:     %s\n", job.Type)
	c.io.Printf("Pay:      %s\n", jobPay(*job))
	c.io.Printf("Length:   %s months\n", job.Length)
	c.io.Printf("Hours:    %s per week\n", job.HoursPerWeek)
	if len(job.Skills) > 0 {
		c.io.Printf("Skills:   %s\n", skillNames(job.Skills))
	}
	c.io.Println()
	c.io.Println(job.Description)

	if len(job.Applications) > 0 {
		c.io.Println()
		c.io.Println("--- Applications ---")
		c.printApplications(job.Applications)
	}
}

func jobPay(job models.Job) string {
	if job.Rate == models.RateHourly {
		return fmt.Sprintf("%d/h", job.Amount)
	}
	return fmt.Sprintf("%d fixed", job.Amount)
}

func (c *Cli) printApplications(apps []models.Application) {
	for i, app := range apps {
		title := app.JobTitle
		if title == "" {
			title = fmt.Sprintf("job #%d", app.JobID)
		}
		c.io.Printf("%d. %s\n", i+1, title)
		c.io.Printf("   ID:     %d\n", app.ID)
		c.io.Printf("   Status: %s\n", app.Status)
		if app.RejectionReason != "" {
			c.io.Printf("   Reason: %s\n", app.RejectionReason)
		}
		if app.Attachment != nil {
			c.io.Printf("   File:   %s (attachment #%d)\n", app.Attachment.FileName, app.Attachment.ID)
		}
		c.io.Println()
	}
}

func (c *Cli) printProfiles(profiles []models.PublicProfile) {
	c.io.Printf("Found %d profile(s):\n", len(profiles))
	c.io.Println()
	for i, p := range profiles {
		c.io.Printf("%d. %s %s\n", i+1, p.Name, p.Surname)
		c.io.Printf("   ID: %d\n", p.ID)
		if fd := p.FreelancerData; fd != nil && fd.Title != "" {
			c.io.Printf("   Title: %s\n", fd.Title)
		}
		if cd := p.ClientData; cd != nil && cd.CompanyName != "" {
			c.io.Printf("   Company: %s\n", cd.CompanyName)
		}
		c.io.Println()
	}
}
