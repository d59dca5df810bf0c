package checkout

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

type ReferenceGenerator interface {
	Next(prefix string) string
}

// SnowflakeReferences issues time-ordered, strictly increasing reference suffixes.
type SnowflakeReferences struct {
	node *snowflake.Node
}

func NewSnowflakeReferences(nodeID int64) (*SnowflakeReferences, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("checkout.NewSnowflakeReferences: %w", err)
	}
	return &SnowflakeReferences{node: node}, nil
}

func (r *SnowflakeReferences) Next(prefix string) string {
	return prefix + r.node.Generate().String()
}
