package config

// DefaultConfigFile is the config file looked up in the working
// directory when no explicit path is given.
const DefaultConfigFile = "funtype.yaml"

// DefaultMaxPasses bounds rule re-evaluation per analysis run.
const DefaultMaxPasses = 64

// ScenarioFileExtensions are all recognized scenario file extensions.
var ScenarioFileExtensions = []string{".yaml", ".yml"}
