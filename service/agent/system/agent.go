// Package system provides a built-in specialist agent that executes shell
// commands on a local or remote host. It lets a supervisor roster answer
// operational queries ("check disk usage", "tail the service log") without an
// external responder process.
package system

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jlord31/autonomous-agents/model"
	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

const defaultTimeout = time.Minute

// Host identifies where commands run. An empty URL means the local host.
type Host struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}

// Agent executes each line of a query as a shell command and returns the
// combined output. It satisfies the specialist agent contract.
type Agent struct {
	name        string
	description string
	host        *Host
	env         map[string]string
	timeout     time.Duration

	mux     sync.Mutex
	service *gosh.Service
}

// Option customizes the agent.
type Option func(*Agent)

// WithHost targets a remote host; credentials name a scy secret resource
// holding the SSH credentials.
func WithHost(host *Host) Option {
	return func(a *Agent) {
		a.host = host
	}
}

// WithEnv sets environment variables applied before every command.
func WithEnv(env map[string]string) Option {
	return func(a *Agent) {
		a.env = env
	}
}

// WithTimeout bounds each individual command.
func WithTimeout(timeout time.Duration) Option {
	return func(a *Agent) {
		a.timeout = timeout
	}
}

// New creates a shell agent with the given roster name and description.
func New(name, description string, options ...Option) *Agent {
	ret := &Agent{
		name:        name,
		description: description,
		host:        &Host{URL: "bash://localhost/"},
		timeout:     defaultTimeout,
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.host.URL == "" {
		ret.host.URL = "bash://localhost/"
	}
	return ret
}

func (a *Agent) Name() string        { return a.name }
func (a *Agent) Description() string { return a.description }

// Invoke runs every non-empty line of the query as a command, in order,
// stopping at the first non-zero exit. The combined stdout is the response;
// a failing command surfaces its stderr as the error.
func (a *Agent) Invoke(ctx context.Context, query, _ string, _ model.History) (interface{}, error) {
	session, err := a.getSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shell session: %w", err)
	}

	var combined strings.Builder
	for _, command := range commands(query) {
		stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(a.timeout.Milliseconds())))
		if err != nil {
			return nil, fmt.Errorf("command %q failed: %w", command, err)
		}
		if status != 0 {
			return nil, fmt.Errorf("command %q exited with status %d: %s", command, status, strings.TrimSpace(stdout))
		}
		if stdout != "" {
			combined.WriteString(stdout)
			combined.WriteString("\n")
		}
	}
	return strings.TrimSpace(combined.String()), nil
}

// Close releases the underlying shell session.
func (a *Agent) Close() error {
	a.mux.Lock()
	defer a.mux.Unlock()
	if a.service == nil {
		return nil
	}
	err := a.service.Close()
	a.service = nil
	return err
}

// getSession lazily creates the gosh session for the configured host.
func (a *Agent) getSession(ctx context.Context) (*gosh.Service, error) {
	a.mux.Lock()
	defer a.mux.Unlock()
	if a.service != nil {
		return a.service, nil
	}

	var envOptions []runner.Option
	if len(a.env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(a.env))
	}

	var service *gosh.Service
	var err error
	if url.Host(a.host.URL) == "localhost" {
		service, err = gosh.New(ctx, local.New(envOptions...))
	} else {
		config, configErr := a.sshConfig(ctx)
		if configErr != nil {
			return nil, fmt.Errorf("failed to get SSH config: %w", configErr)
		}
		sshHost := url.Host(a.host.URL)
		if !strings.Contains(sshHost, ":") {
			sshHost += ":22"
		}
		service, err = gosh.New(ctx, rssh.New(sshHost, config, envOptions...))
	}
	if err != nil {
		return nil, err
	}
	a.service = service
	return service, nil
}

// sshConfig resolves SSH credentials through scy secrets.
func (a *Agent) sshConfig(ctx context.Context) (*ssh.ClientConfig, error) {
	credentials := a.host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	secrets := secret.New()
	generic, err := secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}

// commands splits a query into executable lines.
func commands(query string) []string {
	var out []string
	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
