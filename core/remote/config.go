package remote

// Backend names accepted in Config.Backend.
const (
	BackendNotion = "notion"
	BackendSQL    = "sql"
	BackendMemory = "memory"
)

// Config holds configuration for the remote store.
type Config struct {
	// Backend selects the transport: notion, sql or memory.
	Backend string `mapstructure:"backend" default:"notion"`
	// Token is the integration secret of the Notion workspace.
	Token string `mapstructure:"token" default:""`
	// BaseURL overrides the Notion API endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com/v1"`
	// TimeoutSeconds bounds each remote request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries bounds retries of rate limited or failed requests.
	MaxRetries int `mapstructure:"max_retries" default:"4"`
	// Tables holds the table (database) id of each category.
	Tables Tables `mapstructure:"tables"`
}

// Tables holds one remote table id per category.
type Tables struct {
	Characters string `mapstructure:"characters" default:""`
	Creatures  string `mapstructure:"creatures" default:""`
	Realms     string `mapstructure:"realms" default:""`
	Magic      string `mapstructure:"magic" default:""`
	Plots      string `mapstructure:"plots" default:""`
}

// ByCategory returns the table ids keyed by category name.
func (t Tables) ByCategory() map[string]string {
	return map[string]string{
		"characters": t.Characters,
		"creatures":  t.Creatures,
		"realms":     t.Realms,
		"magic":      t.Magic,
		"plots":      t.Plots,
	}
}
