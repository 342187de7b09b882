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

package world

import "github.com/pdxjjb/kartoffels/internal/direction"

// ObjectId identifies a placed object (gem, flag, ...) for its lifetime.
type ObjectId uint64

// Object is a pickable or interactive item occupying a map tile outside
// the bot tables.
type Object struct {
	ID   ObjectId
	Kind string
	Pos  direction.IVec2
}
