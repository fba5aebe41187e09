package steps

import (
	"fmt"

	"deskbox/pkg/runner"
)

// EnableService enables the service at boot and (re)starts it now.
func EnableService(service string) runner.Step {
	return runner.Step{
		Name:   "enable-" + service,
		Policy: runner.Fatal,
		Details: []string{
			fmt.Sprintf("run: systemctl enable %s", service),
			fmt.Sprintf("run: systemctl restart %s", service),
		},
		Action: func(ctx *runner.Context) error {
			if _, err := ctx.Runner.Run("", fmt.Sprintf("systemctl enable %s", service)); err != nil {
				return fmt.Errorf("enabling %s: %w", service, err)
			}
			if _, err := ctx.Runner.Run("", fmt.Sprintf("systemctl restart %s", service)); err != nil {
				return fmt.Errorf("restarting %s: %w", service, err)
			}
			return nil
		},
	}
}

// AddUserToGroup adds a system user to a group. xrdp needs its service user
// in ssl-cert to read the TLS key.
func AddUserToGroup(user, group string) runner.Step {
	command := fmt.Sprintf("adduser %s %s", user, group)
	return runner.Step{
		Name:    fmt.Sprintf("add-%s-to-%s", user, group),
		Policy:  runner.Fatal,
		Details: []string{"run: " + command},
		Action: func(ctx *runner.Context) error {
			if _, err := ctx.Runner.Run("", command); err != nil {
				return fmt.Errorf("adding %s to group %s: %w", user, group, err)
			}
			return nil
		},
	}
}

// AllowFirewallPort opens a port through ufw. Hosts without ufw configured
// still work over RDP, so a failure only warns.
func AllowFirewallPort(port string) runner.Step {
	return runner.Step{
		Name:   "allow-port-" + port,
		Policy: runner.WarnAndContinue,
		Details: []string{
			fmt.Sprintf("run: ufw allow %s", port),
			"run: ufw reload",
		},
		Action: func(ctx *runner.Context) error {
			if _, err := ctx.Runner.Run("", fmt.Sprintf("ufw allow %s", port)); err != nil {
				return fmt.Errorf("allowing %s: %w", port, err)
			}
			if _, err := ctx.Runner.Run("", "ufw reload"); err != nil {
				return fmt.Errorf("reloading ufw: %w", err)
			}
			return nil
		},
	}
}
