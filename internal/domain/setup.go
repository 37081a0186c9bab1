package domain

import (
	"context"

	"pgsetup/internal/shared/console"
	logger "pgsetup/internal/shared/log"
)

// Process exit statuses.
const (
	ExitOK     = 0
	ExitFailed = 1
)

// AppInfo feeds the banner and the closing instructions.
type AppInfo struct {
	Name    string
	RunHint string
	URL     string
}

// Setup sequences the check, provisioning and probe.
type Setup struct {
	checker     *InstallationChecker
	provisioner *Provisioner
	prober      *ConnectivityProber
	out         *console.Printer
	app         AppInfo
}

func NewSetup(checker *InstallationChecker, provisioner *Provisioner, prober *ConnectivityProber, out *console.Printer, app AppInfo) *Setup {
	return &Setup{checker: checker, provisioner: provisioner, prober: prober, out: out, app: app}
}

// Run returns the process exit status. Provisioning problems never stop the
// run; only a missing client or a failed probe do.
func (s *Setup) Run(ctx context.Context) int {
	s.out.Banner(s.app.Name + " PostgreSQL Setup")

	if !s.checker.Check(ctx) {
		return ExitFailed
	}

	report := s.provisioner.Provision(ctx)
	if !report.Completed() {
		s.out.Blank()
		s.out.Warning("Database creation had issues, but let's test the connection anyway...")
	}

	if err := s.prober.Probe(ctx); err != nil {
		s.out.Blank()
		s.out.Failure("Setup failed. Please check the error messages above.")
		return ExitFailed
	}

	logger.Info(ctx, "Setup completed")
	s.out.Blank()
	s.out.Success("Setup completed successfully!")
	s.out.Step("You can now run your " + s.app.Name + " application:")
	s.out.Detail(s.app.RunHint)
	s.out.Step("Access your app at: " + s.app.URL)
	return ExitOK
}
