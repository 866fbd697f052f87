package ring

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pyropy/ringaudit/core/model"
)

// DevicesFile is the file inside the ring directory describing the cluster.
const DevicesFile = "devices.yaml"

type devicesFile struct {
	PartPower int          `yaml:"part_power"`
	Replicas  int          `yaml:"replicas"`
	Devices   []model.Node `yaml:"devices"`
}

// Load builds a Ring from the devices file in the given ring directory.
func Load(dir string) (*Ring, error) {
	b, err := os.ReadFile(filepath.Join(dir, DevicesFile))
	if err != nil {
		return nil, err
	}

	var df devicesFile
	if err := yaml.Unmarshal(b, &df); err != nil {
		return nil, err
	}

	return New(df.Devices, df.Replicas, df.PartPower)
}
