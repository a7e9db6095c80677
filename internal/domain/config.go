package domain

// Config is the single immutable record threaded into every stage entry
// point; global mutable state is replaced by one record, with seed as one
// of its fields.
type Config struct {
	Seed      int64           `mapstructure:"seed"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Embed     EmbedConfig     `mapstructure:"embed"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Signal    SignalConfig    `mapstructure:"signal"`
	Rank      RankConfig      `mapstructure:"rank"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Artifact  ArtifactConfig  `mapstructure:"artifact"`
}

// NormalizeConfig holds the Normalize stage's tunables.
type NormalizeConfig struct {
	MinA               int64 `mapstructure:"min_a"`
	IncludeConcomitant bool  `mapstructure:"include_concomitant"`
	Dense              bool  `mapstructure:"dense"`
	MaxSkipRatio       float64 `mapstructure:"max_skip_ratio"`
}

// EmbedConfig holds the Embed stage's tunables.
type EmbedConfig struct {
	ClusterThreshold float64 `mapstructure:"cluster_threshold"` // cosine similarity
	MinCohesion      float64 `mapstructure:"min_cohesion"`
	EmbeddingDim     int     `mapstructure:"embedding_dim"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds"`
}

// ExtractConfig holds the Extract stage's tunables.
type ExtractConfig struct {
	ConfidenceFloor float64 `mapstructure:"confidence_floor"`
}

// SignalConfig holds the Signal stage's tunables.
type SignalConfig struct {
	TrendMinQuarters int `mapstructure:"trend_min_quarters"`
}

// RankConfig holds the Rank stage's tunables.
type RankConfig struct {
	Weights       RankWeights `mapstructure:"weights"`
	LitRecentYears int        `mapstructure:"lit_recent_years"`
}

// RankWeights are the (w_stat, w_trend, w_lit) fusion weights. Defaults
// are (1.0, 0.5, 0.5); they remain configuration so a future
// human-reviewed benchmark can retune them without a code change (see
// DESIGN.md).
type RankWeights struct {
	Stat  float64 `mapstructure:"stat"`
	Trend float64 `mapstructure:"trend"`
	Lit   float64 `mapstructure:"lit"`
}

// DatabaseConfig configures the synonym-resource backing store.
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // "postgres" or "sqlite"
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Database    string `mapstructure:"database"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	SSLMode     string `mapstructure:"ssl_mode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	MaxConns    int32  `mapstructure:"max_conns"`
	MinConns    int32  `mapstructure:"min_conns"`
}

// CacheConfig configures the Redis-backed embedding cache.
type CacheConfig struct {
	RedisURL string `mapstructure:"redis_url"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig configures logrus.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// ArtifactConfig configures the filesystem layout the artifact store writes
// into, plus the pre-staged local input files Normalize and Extract read
// from (fetching those files is an external concern; this pipeline only
// reads what is already on disk).
type ArtifactConfig struct {
	BaseDir              string `mapstructure:"base_dir"`
	RawReportsPath       string `mapstructure:"raw_reports_path"`
	LiteratureAbstractsPath string `mapstructure:"literature_abstracts_path"`
}
