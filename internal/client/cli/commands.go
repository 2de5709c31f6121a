package cli

import "github.com/spf13/cobra"

// Commands returns every view as a cobra command.
func (c *Cli) Commands() []*cobra.Command {
	return []*cobra.Command{
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.dashboardCmd(),
		c.profileCmd(),
		c.jobsCmd(),
		c.profilesCmd("freelancers", "Browse freelancers", c.apiClient.ListFreelancers, c.apiClient.GetFreelancer),
		c.profilesCmd("clients", "Browse clients", c.apiClient.ListClients, c.apiClient.GetClient),
		c.skillsCmd(),
		c.myJobsCmd(),
		c.applicationsCmd(),
		c.attachmentCmd(),
		c.adminCmd(),
	}
}
