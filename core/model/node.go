package model

import "fmt"

// Node is one storage device in the cluster, as declared in the ring's
// devices file. Identity is opaque and only used for addressing and logging.
type Node struct {
	ID     string `yaml:"id" json:"id"`
	IP     string `yaml:"ip" json:"ip"`
	Port   int    `yaml:"port" json:"port"`
	Device string `yaml:"device" json:"device"`
	Zone   int    `yaml:"zone" json:"zone"`
}

func (n Node) HostPort() string {
	return fmt.Sprintf("%s:%d", n.IP, n.Port)
}
