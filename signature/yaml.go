package signature

// yamlSignature is the on-disk form of one signature.
type yamlSignature struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Pattern     string   `yaml:"pattern"`
	Description string   `yaml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// yamlSignaturesFile is the top-level structure of a signatures YAML file.
type yamlSignaturesFile struct {
	Signatures []yamlSignature `yaml:"signatures"`
}
