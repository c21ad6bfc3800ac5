package compile

import "context"

// Default static-site generator invocation.
const (
	SiteCommand    = "./sitegen"
	SiteConfigFile = "site.yaml"
)

// Site regenerates a whole static site from templates whenever any template
// changes. The generator owns output placement, so Site has no build
// directory and ignores which template triggered it.
type Site struct {
	base
	configFile string
}

// NewSite creates a site compiler watching root. WithBuildDir is ignored.
func NewSite(root string, opts ...Option) *Site {
	o := buildOptions(options{
		command:    SiteCommand,
		extensions: []string{"jinja", "j2"},
		configFile: SiteConfigFile,
	}, opts)

	return &Site{
		base: base{
			name:    "site",
			command: o.command,
			config:  NewWatchConfig(root, "", o.extensions, ".html"),
			runner:  o.runner,
		},
		configFile: o.configFile,
	}
}

// ConfigFile is the generator configuration passed on every run.
func (c *Site) ConfigFile() string { return c.configFile }

// Compile runs the generator with its configuration file. src is only
// recorded in the result.
func (c *Site) Compile(ctx context.Context, src string) Result {
	return c.run(ctx, src, "", c.configFile)
}
