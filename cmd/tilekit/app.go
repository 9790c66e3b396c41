// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/tilekit/tilekit/internal/config"
	"github.com/tilekit/tilekit/internal/filtering"
	"github.com/tilekit/tilekit/internal/hostbuild"
	"github.com/tilekit/tilekit/internal/issue"
	"github.com/tilekit/tilekit/internal/modelcache"
	"github.com/tilekit/tilekit/internal/project"
	"github.com/tilekit/tilekit/internal/repository"
	"github.com/tilekit/tilekit/internal/tiles"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Loaded, error)
	}

	// App wires CLI services and shared dependencies. It is the composition root for the
	// CLI layer; all command handlers receive an App reference.
	App struct {
		Config ConfigProvider

		flags    rootFlags
		settings *config.Config
		cfgPath  string
		logger   *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
	}

	rootFlags struct {
		verbose    bool
		configFile string
		release    bool
		file       string
	}

	// session holds the collaborators of one command invocation.
	session struct {
		reactor      *project.Reactor
		chain        *repository.Chain
		remote       *repository.S3
		filter       *filtering.Filter
		orchestrator *tiles.Orchestrator
	}
)

// NewApp creates an App.
func NewApp(deps Dependencies) *App {
	app := &App{Config: deps.Config}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	return app
}

// init loads configuration and sets up logging. Flags override configured values.
func (a *App) init(ctx context.Context, stderr io.Writer) error {
	loaded, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configFile})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId)
	}
	a.settings = loaded.Config
	a.cfgPath = loaded.Path
	a.flags.verbose = a.flags.verbose || a.settings.UI.Verbose
	a.flags.release = a.flags.release || a.settings.Release

	level := log.InfoLevel
	if a.flags.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	return nil
}

// projectFile returns the descriptor the reactor is loaded from. A directory selects its
// descriptor file.
func (a *App) projectFile() string {
	file := a.flags.file
	if info, err := os.Stat(file); err == nil && info.IsDir() {
		file = filepath.Join(file, project.DescriptorFileName)
	}
	return file
}

// openSession loads the reactor and wires repositories, resolvers and the orchestrator.
func (a *App) openSession() (*session, error) {
	reactor, err := project.LoadReactor(a.projectFile())
	if err != nil {
		return nil, err
	}

	root, err := a.settings.LocalRepositoryPath()
	if err != nil {
		return nil, err
	}
	s := &session{reactor: reactor, filter: filtering.New(a.logger)}

	var remotes []repository.Repository
	if a.settings.Remote.Enabled() {
		r := a.settings.Remote
		s.remote, err = repository.NewS3(repository.S3Config{
			Endpoint:  r.Endpoint,
			Region:    r.Region,
			AccessKey: r.AccessKey,
			SecretKey: r.SecretKey,
			Bucket:    r.Bucket,
			Prefix:    r.Prefix,
			UseSSL:    r.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("remote repository: %w", err)
		}
		remotes = append(remotes, s.remote)
	}
	s.chain = repository.NewChain(repository.NewLocal(root), a.logger, remotes...)

	cache, err := modelcache.NewLRU(a.settings.CacheSize)
	if err != nil {
		return nil, err
	}
	s.orchestrator, err = tiles.NewOrchestrator(tiles.OrchestratorConfig{
		Tiles: tiles.NewResolver(s.chain,
			tiles.WithReactor(reactor),
			tiles.WithRelease(a.flags.release),
			tiles.WithFilter(s.filter),
			tiles.WithLogger(a.logger),
		),
		Parents: hostbuild.NewWorkspaceResolver(s.chain),
		Cache:   cache,
		Builder: hostbuild.NewBuilder(a.logger),
		Logger:  a.logger,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// attachOptions returns the options of attach and validate. The --smells flag overrides
// the project's buildSmells; the configured build_smells only fills in when neither is set.
func (a *App) attachOptions(s *session, smells string) tiles.AttachOptions {
	return tiles.AttachOptions{
		BuildSmells:        smells,
		DefaultBuildSmells: a.settings.BuildSmells,
		Filtering:          a.settings.Filtering,
		Filter:             s.filter,
		Logger:             a.logger,
	}
}

// ownsTile reports whether p publishes a tile: tile packaging or a tile file of its own.
func ownsTile(p *project.Project) bool {
	if p.Packaging() == tiles.Packaging {
		return true
	}
	_, err := os.Stat(filepath.Join(p.BaseDir, tiles.FileName))
	return err == nil
}
