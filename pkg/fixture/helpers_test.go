package fixture

import "gopkg.in/yaml.v3"

func yamlDecode(doc string, v any) error {
	return yaml.Unmarshal([]byte(doc), v)
}
