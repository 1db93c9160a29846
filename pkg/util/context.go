package util

type ContextKey string

func (c ContextKey) String() string {
	return "twdl_" + string(c)
}

var RunIDContextKey ContextKey = "run_id"
var ClipIDContextKey ContextKey = "clip_id"
var BroadcasterContextKey ContextKey = "broadcaster"
