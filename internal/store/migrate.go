// Copyright © 2026 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

package store

import "fmt"

// migration transforms a document one version forward. Migrations
// operate on the generic decoded map rather than the typed State, since
// a later version may add, rename, or restructure fields the current
// State struct doesn't know about yet when an old document is read.
// Every migration must be idempotent when re-applied to an
// already-migrated value.
type migration struct {
	from uint16
	to   uint16
	run  func(doc map[string]interface{}) map[string]interface{}
}

// migrations is the ordered chain from the oldest document version this
// binary still accepts up to CurrentVersion.
var migrations = []migration{
	{
		// v1 named the tick counter "ticks"; v2 renamed it to
		// "tick_count" to match the rest of the *_count convention
		// introduced alongside the lives table.
		from: 1,
		to:   2,
		run: func(doc map[string]interface{}) map[string]interface{} {
			if v, ok := doc["ticks"]; ok {
				if _, already := doc["tick_count"]; !already {
					doc["tick_count"] = v
				}
				delete(doc, "ticks")
			}
			doc["version"] = uint64(2)
			return doc
		},
	},
}

// migrate runs doc through every applicable migration in order, up to
// CurrentVersion. It returns an error if doc's version is newer than
// anything this binary understands.
func migrate(doc map[string]interface{}) (map[string]interface{}, error) {
	version, err := docVersion(doc)
	if err != nil {
		return nil, err
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("store: document version %d is newer than supported %d", version, CurrentVersion)
	}

	for _, m := range migrations {
		if version != m.from {
			continue
		}
		doc = m.run(doc)
		version = m.to
	}
	if version != CurrentVersion {
		return nil, fmt.Errorf("store: no migration path from version %d to %d", version, CurrentVersion)
	}
	return doc, nil
}

func docVersion(doc map[string]interface{}) (uint16, error) {
	raw, ok := doc["version"]
	if !ok {
		return 0, fmt.Errorf("store: document has no version field")
	}
	switch v := raw.(type) {
	case uint64:
		return uint16(v), nil
	case int64:
		return uint16(v), nil
	case uint16:
		return v, nil
	default:
		return 0, fmt.Errorf("store: unrecognized version field type %T", raw)
	}
}
