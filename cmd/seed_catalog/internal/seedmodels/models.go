package seedmodels

// SeedCatalog is the root of a catalog seed file.
type SeedCatalog struct {
	Attributes      []SeedAttribute     `yaml:"attributes"`
	Questions       []SeedQuestion      `yaml:"questions"`
	Targets         []SeedTarget        `yaml:"targets"`
	QuestionTargets []SeedQuestionTarget `yaml:"question_targets"`
}

// SeedAttribute seeds one scoring_attributes row.
type SeedAttribute struct {
	Code          string  `yaml:"code"`
	Stage         string  `yaml:"stage"`
	Name          string  `yaml:"name"`
	TotalPossible float64 `yaml:"total_possible"`
}

// SeedQuestion seeds one questions row plus its localized contents.
type SeedQuestion struct {
	Code         string        `yaml:"code"`
	Filename     string        `yaml:"filename"`
	Stage        string        `yaml:"stage"`
	Attr1        string        `yaml:"attr1"`
	Attr2        string        `yaml:"attr2"`
	Attr3        string        `yaml:"attr3"`
	StageOrder   int           `yaml:"stage_order"`
	SeqOrder     int           `yaml:"seq_order"`
	TimeLimitSec int           `yaml:"time_limit_sec"`
	Contents     []SeedContent `yaml:"contents"`
}

// SeedContent seeds one question_contents row.
type SeedContent struct {
	Locale string `yaml:"locale"`
	Body   string `yaml:"body"`
}

// SeedTarget seeds one recommendation_targets row and its attribute map.
type SeedTarget struct {
	Code  string   `yaml:"code"`
	Name  string   `yaml:"name"`
	Kind  string   `yaml:"kind"`
	Attrs []string `yaml:"attrs"`
}

// SeedQuestionTarget seeds one question_target_maps row.
type SeedQuestionTarget struct {
	QuestionCode string `yaml:"question_code"`
	TargetCode   string `yaml:"target_code"`
}
