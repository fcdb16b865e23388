package pogs

import "gopkg.in/yaml.v3"

// settingsYAML is the wire shape for Settings YAML (de)serialization; the
// zerolog.Logger field has no sensible YAML representation and is excluded,
// matching how cmd/pogs-solve lets Verbose alone drive logging from a
// config file.
type settingsYAML struct {
	Alpha       float64   `yaml:"alpha"`
	Rho         float64   `yaml:"rho"`
	AbsTol      float64   `yaml:"abstol"`
	RelTol      float64   `yaml:"reltol"`
	MaxIter     int       `yaml:"maxiter"`
	Verbose     int       `yaml:"verbose"`
	Suppress    int       `yaml:"suppress"`
	AdaptiveRho bool      `yaml:"adaptiverho"`
	GapStop     bool      `yaml:"gapstop"`
	WarmStart   bool      `yaml:"warmstart"`
	Resume      bool      `yaml:"resume"`
	Accelerate  bool      `yaml:"accelerate"`
}

// MarshalYAML implements yaml.Marshaler.
func (s Settings) MarshalYAML() (interface{}, error) {
	return settingsYAML{
		Alpha: s.Alpha, Rho: s.Rho, AbsTol: s.AbsTol, RelTol: s.RelTol,
		MaxIter: s.MaxIter, Verbose: s.Verbose, Suppress: s.Suppress,
		AdaptiveRho: s.AdaptiveRho, GapStop: s.GapStop, WarmStart: s.WarmStart,
		Resume: s.Resume, Accelerate: s.Accelerate,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, merging onto DefaultSettings
// so an incomplete YAML document still yields the standard defaults for
// any field it omits.
func (s *Settings) UnmarshalYAML(node *yaml.Node) error {
	var wire settingsYAML
	def := DefaultSettings()
	wire.Alpha, wire.Rho, wire.AbsTol, wire.RelTol = def.Alpha, def.Rho, def.AbsTol, def.RelTol
	wire.MaxIter, wire.Verbose, wire.AdaptiveRho = def.MaxIter, def.Verbose, def.AdaptiveRho
	if err := node.Decode(&wire); err != nil {
		return err
	}
	*s = Settings{
		Alpha: wire.Alpha, Rho: wire.Rho, AbsTol: wire.AbsTol, RelTol: wire.RelTol,
		MaxIter: wire.MaxIter, Verbose: wire.Verbose, Suppress: wire.Suppress,
		AdaptiveRho: wire.AdaptiveRho, GapStop: wire.GapStop, WarmStart: wire.WarmStart,
		Resume: wire.Resume, Accelerate: wire.Accelerate,
		Logger: def.Logger,
	}
	return nil
}
