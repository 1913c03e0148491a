package redis

import (
	"fmt"

	"github.com/mcoot/donateshop/internal/model"
)

// Key prefix for all shop data
const keyPrefix = "donateshop"

// playerKey returns the Redis key holding a Player as JSON
func playerKey(id model.SteamID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerSeqKey returns the counter used to assign surrogate player ids
func playerSeqKey() string {
	return fmt.Sprintf("%s:seq:player", keyPrefix)
}
