package engine

import (
	"errors"

	"github.com/markserve/markserve/pkg/bookmark"
	"github.com/markserve/markserve/pkg/search"
)

// Worker ops. One request envelope covers every operation; unused fields
// stay empty and get omitted from the encoding.
const (
	opInit      = "init"
	opSearch    = "search"
	opUpdateOne = "update_one"
	opUpdateAll = "update_all"
	opSimilar   = "similar"
	opSuggest   = "suggest"
	opFrecency  = "frecency"
	opStats     = "stats"
)

// request is the msgpack envelope sent into the worker context. ID is the
// correlation identifier responses are matched on; arrival order is never
// trusted.
type request struct {
	ID       string            `msgpack:"id"`
	Op       string            `msgpack:"op"`
	Query    string            `msgpack:"q,omitempty"`
	Limit    int               `msgpack:"l,omitempty"`
	Target   string            `msgpack:"t,omitempty"`
	Snapshot []bookmark.Record `msgpack:"snap,omitempty"`
	Patch    *bookmark.Patch   `msgpack:"patch,omitempty"`
	Filters  *Filters          `msgpack:"f,omitempty"`
}

// response is the matching envelope coming back out.
type response struct {
	ID      string            `msgpack:"id"`
	Err     string            `msgpack:"err,omitempty"`
	Results []search.Result   `msgpack:"res,omitempty"`
	Records []bookmark.Record `msgpack:"recs,omitempty"`
	Terms   []string          `msgpack:"terms,omitempty"`
	Value   int               `msgpack:"val,omitempty"`
	Stats   *Stats            `msgpack:"stats,omitempty"`
}

// errString flattens an error for the wire.
func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// errFromString restores sentinel identity after the round trip so callers
// can still use errors.Is on host results.
func errFromString(s string) error {
	if s == "" {
		return nil
	}
	for _, known := range []error{ErrTimeout, ErrContextLost, ErrClosed, ErrBadRequest, ErrUnknownID} {
		if s == known.Error() {
			return known
		}
	}
	return errors.New(s)
}
