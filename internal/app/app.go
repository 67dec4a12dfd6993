package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tfexecgo/internal/ctxlog"
	"github.com/vk/tfexecgo/internal/profile"
	"github.com/vk/tfexecgo/tfexec"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	driver *tfexec.Terraform

	// backendConfig comes from the profile's backend blocks and feeds the
	// init operation only.
	backendConfig map[string]string
}

// NewApp is the constructor for the main application. It configures an
// isolated logger on errW, loads the run profile when one was named, and
// builds the terraform driver. Captured command output goes to outW.
func NewApp(outW, errW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var driverCfg tfexec.Config
	var backendConfig map[string]string
	if appConfig.ProfilePath != "" {
		p, err := profile.Load(ctx, appConfig.ProfilePath)
		if err != nil {
			return nil, err
		}
		driverCfg = tfexec.Config{
			Binary:      p.Binary,
			WorkingDir:  p.WorkingDir,
			IsolateEnv:  p.IsolateEnv,
			State:       p.State,
			Targets:     p.Targets,
			Variables:   p.Variables,
			VarFiles:    p.VarFiles,
			Parallelism: p.Parallelism,
		}
		backendConfig = p.BackendConfig
		logger.Debug("Profile loaded.", "path", appConfig.ProfilePath)
	}

	// Command-line flags win over the profile.
	if appConfig.Binary != "" {
		driverCfg.Binary = appConfig.Binary
	}
	if appConfig.Chdir != "" {
		driverCfg.WorkingDir = appConfig.Chdir
	}

	driver, err := tfexec.New(driverCfg)
	if err != nil {
		return nil, fmt.Errorf("building terraform driver: %w", err)
	}
	logger.Debug("Terraform driver ready.", "dir", driverCfg.WorkingDir)

	return &App{
		outW:          outW,
		logger:        logger,
		config:        appConfig,
		driver:        driver,
		backendConfig: backendConfig,
	}, nil
}

// Driver returns the application's terraform driver. This is primarily for
// testing.
func (a *App) Driver() *tfexec.Terraform {
	return a.driver
}
