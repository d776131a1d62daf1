package catalog

import "errors"

// Setting rule tags understood by the calculation engine.
const (
	RuleDeluxeArmorStacking         = "deluxe_armor_stacking"
	RuleRiftsMDC                    = "rifts_mdc"
	RuleFullConversionBorg          = "full_conversion_borg"
	RuleIZ3Cyberware                = "iz3_cyberware"
	RulePathfinderArmorInterference = "pathfinder_armor_interference"
	RuleLanguages                   = "languages"
	RuleHideNativeLanguage          = "hide_native_language"
)

// SettingRule is an optional rule whose effect lines apply while its tag is enabled.
type SettingRule struct {
	Tag     string   `yaml:"tag" json:"tag"`
	Name    string   `yaml:"name" json:"name,omitempty"`
	Effects []string `yaml:"effects" json:"effects,omitempty"`
}

// SettingDef defines a campaign setting: book filter, rule toggles, and house-rule content
// that takes precedence over the catalog.
type SettingDef struct {
	ID    int    `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Books []int  `yaml:"books" json:"books,omitempty"`
	// Rules lists the enabled rule tags.
	Rules       []string      `yaml:"rules" json:"rules,omitempty"`
	RuleEffects []SettingRule `yaml:"rule_effects" json:"rule_effects,omitempty"`

	CustomEdges             []EdgeDef             `yaml:"custom_edges" json:"custom_edges,omitempty"`
	CustomHindrances        []HindranceDef        `yaml:"custom_hindrances" json:"custom_hindrances,omitempty"`
	CustomArcaneBackgrounds []ArcaneBackgroundDef `yaml:"custom_arcane_backgrounds" json:"custom_arcane_backgrounds,omitempty"`

	StartingFunds       int    `yaml:"starting_funds" json:"starting_funds,omitempty"`
	NativeLanguage      string `yaml:"native_language" json:"native_language,omitempty"`
	NativeLanguageIndex int    `yaml:"native_language_index" json:"native_language_index,omitempty"`
}

// Def satisfies Definition so settings share the registry helpers.
func (s *SettingDef) Def() *Common {
	return &Common{ID: s.ID, Name: s.Name}
}

// Validate checks the setting and its custom content.
func (s *SettingDef) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.StartingFunds < 0 {
		errs = append(errs, errors.New("starting_funds must be >= 0"))
	}
	if s.NativeLanguageIndex < 0 {
		errs = append(errs, errors.New("native_language_index must be >= 0"))
	}
	for i := range s.CustomEdges {
		if err := s.CustomEdges[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := range s.CustomHindrances {
		if err := s.CustomHindrances[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for i := range s.CustomArcaneBackgrounds {
		if err := s.CustomArcaneBackgrounds[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors("setting", errs)
}
