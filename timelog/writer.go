// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timelog

import (
	"fmt"
	"regexp"
	"strconv"
)

var sizedName = regexp.MustCompile(`_size_\d+\.txt$`)

// FormatLine returns res in the "ru-average" format, which is the
// format current producers write. If res.Name does not already carry a
// "_size_N.txt" suffix, one is added so the size survives the trip.
//
// The elapsed time is written with the fewest digits that parse back
// to the same value.
func FormatLine(res *Result) string {
	name := res.Name
	if !sizedName.MatchString(name) {
		name = fmt.Sprintf("%s_size_%d.txt", name, res.Size)
	}
	return fmt.Sprintf("%s: Среднее время %s секунд", name, strconv.FormatFloat(res.Elapsed, 'f', -1, 64))
}
