package counter

import "github.com/weegigs/wee-counter-go/we"

// Counter is the only slot the contract persists.
var Counter = we.NewItem[uint64]("counter")
