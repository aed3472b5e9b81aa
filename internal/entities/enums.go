package entities

// Option is a selectable enum value with a display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type NovelType string

const (
	NovelTypeShort  NovelType = "short"
	NovelTypeLong   NovelType = "long"
	NovelTypeSeries NovelType = "series"
)

type NovelStatus string

const (
	NovelStatusDraft     NovelStatus = "draft"
	NovelStatusOngoing   NovelStatus = "ongoing"
	NovelStatusCompleted NovelStatus = "completed"
	NovelStatusHiatus    NovelStatus = "hiatus"
)

type RelationType string

const (
	RelationRelated      RelationType = "related"
	RelationSequel       RelationType = "sequel"
	RelationPrequel      RelationType = "prequel"
	RelationSpinoff      RelationType = "spinoff"
	RelationSameUniverse RelationType = "same_universe"
)

var (
	NovelTypes = []Option{
		{"short", "단편"},
		{"long", "장편"},
		{"series", "연재물"},
	}

	NovelStatuses = []Option{
		{"draft", "임시저장"},
		{"ongoing", "연재중"},
		{"completed", "완결"},
		{"hiatus", "휴재"},
	}

	Genres = []Option{
		{"fantasy", "판타지"},
		{"romance", "로맨스"},
		{"action", "액션"},
		{"thriller", "스릴러"},
		{"mystery", "미스터리"},
		{"sf", "SF"},
		{"horror", "호러"},
		{"drama", "드라마"},
		{"comedy", "코미디"},
		{"slice_of_life", "일상"},
		{"historical", "역사"},
		{"martial_arts", "무협"},
		{"game", "게임"},
		{"sports", "스포츠"},
		{"music", "음악"},
		{"psychological", "심리"},
		{"supernatural", "초자연"},
		{"adventure", "모험"},
	}

	RelationTypes = []Option{
		{"related", "연관 작품"},
		{"sequel", "후속작"},
		{"prequel", "전편"},
		{"spinoff", "스핀오프"},
		{"same_universe", "같은 세계관"},
	}

	Platforms = []Option{
		{"ios", "iOS"},
		{"android", "Android"},
		{"web", "Web"},
		{"windows", "Windows"},
		{"macos", "macOS"},
		{"linux", "Linux"},
		{"game", "Game"},
	}

	DistributionChannelTypes = []Option{
		{"app_store", "App Store"},
		{"play_store", "Google Play"},
		{"web", "Web"},
		{"steam", "Steam"},
		{"stove", "STOVE"},
		{"epic", "Epic Games Store"},
		{"gog", "GOG"},
		{"itch", "itch.io"},
		{"landing_page", "Landing page"},
		{"direct_download", "Direct download"},
		{"github", "GitHub"},
		{"other", "Other"},
	}
)

// ValidOption reports whether value is one of options.
func ValidOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// OptionLabel returns the display label for value, or value itself when unknown.
func OptionLabel(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
