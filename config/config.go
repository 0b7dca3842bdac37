package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spiffcs/issues-watcher/internal/constants"
	"github.com/spiffcs/issues-watcher/internal/duration"
	"github.com/spiffcs/issues-watcher/internal/model"
	"github.com/spiffcs/issues-watcher/internal/triage"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	GitHubToken  string `yaml:"github_token,omitempty"`
	SlackToken   string `yaml:"slack_token,omitempty"`
	SlackChannel string `yaml:"slack_channel,omitempty"`

	Repos    []string `yaml:"repos,omitempty"`
	Projects []string `yaml:"projects,omitempty"`

	APIBaseURL     string `yaml:"api_base_url,omitempty"`
	UserAgent      string `yaml:"user_agent,omitempty"`
	Workers        *int   `yaml:"workers,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`
	DefaultFormat  string `yaml:"default_format,omitempty"`
	StrictProjects *bool  `yaml:"strict_projects,omitempty"`

	Accept *AcceptOverrides `yaml:"accept,omitempty"`
	Filter *FilterOverrides `yaml:"filter,omitempty"`
}

// AcceptOverrides replaces the media types sent to the API
type AcceptOverrides struct {
	Issues   string `yaml:"issues,omitempty"`
	Projects string `yaml:"projects,omitempty"`
}

// FilterOverrides configures the no-reply triage of repository issues
type FilterOverrides struct {
	Enabled             *bool    `yaml:"enabled,omitempty"`
	Stale               string   `yaml:"stale,omitempty"`
	IncludePullRequests *bool    `yaml:"include_pull_requests,omitempty"`
	IncludeAssigned     *bool    `yaml:"include_assigned,omitempty"`
	ExcludeLabels       []string `yaml:"exclude_labels,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".issues-watcher"
	}
	return filepath.Join(configDir, "issues-watcher")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".issues-watcher.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the user config directory, then
// merges any local .issues-watcher.yaml on top (local values take precedence).
func Load() (*Config, error) {
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom loads and merges the config files at globalPath and localPath.
// Missing files are skipped.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}
	return cfg, nil
}

// LoadGlobal loads only the global config file, without the local overlay
// or defaults. Edits saved with Save must start from it so that local
// settings never leak into the global file.
func LoadGlobal() (*Config, error) {
	cfg, err := readFile(ConfigPath())
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

// readFile parses one config file. A missing file yields nil.
func readFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{
		GitHubToken:    pick(local.GitHubToken, global.GitHubToken),
		SlackToken:     pick(local.SlackToken, global.SlackToken),
		SlackChannel:   pick(local.SlackChannel, global.SlackChannel),
		APIBaseURL:     pick(local.APIBaseURL, global.APIBaseURL),
		UserAgent:      pick(local.UserAgent, global.UserAgent),
		Timeout:        pick(local.Timeout, global.Timeout),
		DefaultFormat:  pick(local.DefaultFormat, global.DefaultFormat),
		Workers:        pickPtr(local.Workers, global.Workers),
		StrictProjects: pickPtr(local.StrictProjects, global.StrictProjects),
	}

	// Lists are replaced, not appended.
	result.Repos = global.Repos
	if len(local.Repos) > 0 {
		result.Repos = local.Repos
	}
	result.Projects = global.Projects
	if len(local.Projects) > 0 {
		result.Projects = local.Projects
	}

	result.Accept = mergeAccept(global.Accept, local.Accept)
	result.Filter = mergeFilter(global.Filter, local.Filter)
	return result
}

func pick(local, global string) string {
	if local != "" {
		return local
	}
	return global
}

func pickPtr[T any](local, global *T) *T {
	if local != nil {
		return local
	}
	return global
}

func mergeAccept(global, local *AcceptOverrides) *AcceptOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &AcceptOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Issues = pick(local.Issues, result.Issues)
		result.Projects = pick(local.Projects, result.Projects)
	}
	return result
}

func mergeFilter(global, local *FilterOverrides) *FilterOverrides {
	if global == nil && local == nil {
		return nil
	}
	result := &FilterOverrides{}
	if global != nil {
		*result = *global
	}
	if local != nil {
		result.Enabled = pickPtr(local.Enabled, result.Enabled)
		result.Stale = pick(local.Stale, result.Stale)
		result.IncludePullRequests = pickPtr(local.IncludePullRequests, result.IncludePullRequests)
		result.IncludeAssigned = pickPtr(local.IncludeAssigned, result.IncludeAssigned)
		if len(local.ExcludeLabels) > 0 {
			result.ExcludeLabels = local.ExcludeLabels
		}
	}
	return result
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	for _, r := range c.Repos {
		if _, err := model.ParseRepoRef(r); err != nil {
			errs = append(errs, err)
		}
	}
	if c.IsStrictProjects() {
		for _, p := range c.Projects {
			if _, err := model.ParseProjectRefStrict(p); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if c.APIBaseURL != "" {
		if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("api_base_url %q is not an absolute URL", c.APIBaseURL))
		}
	}
	if c.Workers != nil && *c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", *c.Workers))
	}
	if _, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.StaleWindow(); err != nil {
		errs = append(errs, err)
	}
	switch c.DefaultFormat {
	case "", "table", "json", "markdown":
	default:
		errs = append(errs, fmt.Errorf("default_format %q is not one of table, json, markdown", c.DefaultFormat))
	}

	return errors.Join(errs...)
}

// GetGitHubToken returns the GitHub token. The GITHUB_TOKEN environment
// variable takes precedence over the config file.
func (c *Config) GetGitHubToken() string {
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return c.GitHubToken
}

// GetSlackToken returns the Slack token. The SLACK_TOKEN environment
// variable takes precedence over the config file.
func (c *Config) GetSlackToken() string {
	if tok := os.Getenv("SLACK_TOKEN"); tok != "" {
		return tok
	}
	return c.SlackToken
}

// RelayEnabled reports whether a Slack token and channel are configured.
func (c *Config) RelayEnabled() bool {
	return c.GetSlackToken() != "" && c.SlackChannel != ""
}

// GetAPIBaseURL returns the API root, defaulting to api.github.com.
func (c *Config) GetAPIBaseURL() string {
	return pick(c.APIBaseURL, constants.DefaultAPIBaseURL)
}

// GetUserAgent returns the User-Agent sent with API requests.
func (c *Config) GetUserAgent() string {
	return pick(c.UserAgent, constants.UserAgent)
}

// GetWorkers returns the fan-out bound.
func (c *Config) GetWorkers() int {
	if c.Workers != nil && *c.Workers > 0 {
		return *c.Workers
	}
	return constants.DefaultWorkers
}

// TimeoutDuration returns the snapshot deadline.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return constants.DefaultTimeout, nil
	}
	d, err := duration.Parse(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout: %w", err)
	}
	return d, nil
}

// IsStrictProjects reports whether unparsable project URLs are errors.
func (c *Config) IsStrictProjects() bool {
	return c.StrictProjects == nil || *c.StrictProjects
}

// AcceptHeaders returns the issue and board media type overrides.
func (c *Config) AcceptHeaders() (issues, projects string) {
	if c.Accept == nil {
		return "", ""
	}
	return c.Accept.Issues, c.Accept.Projects
}

// FilterEnabled reports whether repository issues are narrowed to the
// ones without a member reply.
func (c *Config) FilterEnabled() bool {
	return c.Filter != nil && c.Filter.Enabled != nil && *c.Filter.Enabled
}

// StaleWindow returns how old an issue must be to be reported.
func (c *Config) StaleWindow() (time.Duration, error) {
	if c.Filter == nil || c.Filter.Stale == "" {
		return constants.DefaultStaleWindow, nil
	}
	d, err := duration.Parse(c.Filter.Stale)
	if err != nil {
		return 0, fmt.Errorf("filter.stale: %w", err)
	}
	return d, nil
}

// TriageOptions returns the filter pipeline configuration.
func (c *Config) TriageOptions() (triage.Options, error) {
	opts := triage.DefaultOptions()
	window, err := c.StaleWindow()
	if err != nil {
		return opts, err
	}
	opts.StaleWindow = window

	if f := c.Filter; f != nil {
		if f.IncludePullRequests != nil {
			opts.ExcludePullRequests = !*f.IncludePullRequests
		}
		if f.IncludeAssigned != nil {
			opts.UnassignedOnly = !*f.IncludeAssigned
		}
		opts.ExcludeLabels = f.ExcludeLabels
	}
	return opts, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(ConfigPath(), string(data))
}

// SetDefaultFormat sets the default output format and saves
func (c *Config) SetDefaultFormat(format string) error {
	c.DefaultFormat = format
	return c.Save()
}

// Redacted returns a copy with tokens masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.GitHubToken != "" {
		out.GitHubToken = "********"
	}
	if out.SlackToken != "" {
		out.SlackToken = "********"
	}
	return &out
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	workers := constants.DefaultWorkers
	strict := true
	enabled := false
	includePRs := false
	includeAssigned := false

	return &Config{
		Repos:          []string{},
		Projects:       []string{},
		APIBaseURL:     constants.DefaultAPIBaseURL,
		UserAgent:      constants.UserAgent,
		Workers:        &workers,
		Timeout:        duration.Format(constants.DefaultTimeout),
		DefaultFormat:  "table",
		StrictProjects: &strict,
		Accept: &AcceptOverrides{
			Issues:   constants.AcceptIssues,
			Projects: constants.AcceptProjects,
		},
		Filter: &FilterOverrides{
			Enabled:             &enabled,
			Stale:               duration.Format(constants.DefaultStaleWindow),
			IncludePullRequests: &includePRs,
			IncludeAssigned:     &includeAssigned,
			ExcludeLabels:       []string{},
		},
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# issues-watcher configuration file
# See: issues-watcher config defaults  (for all available options)

# Repositories whose open issues are listed
repos:
  - pingcap/tidb

# Classic project boards to drill into
# projects:
#   - https://github.com/pingcap/docs/projects/3

# Output format: table, json or markdown
default_format: table

# Tokens may also come from GITHUB_TOKEN and SLACK_TOKEN
# github_token: ghp_...
# slack_token: xoxb-...
# slack_channel: "#triage"

# Only report issues nobody from the project has answered (optional)
# filter:
#   enabled: true
#   stale: 3d
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
