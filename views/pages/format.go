// Package pages holds the full-page views of the planner.
package pages

import (
	"strconv"

	"posterplanner/internal/viewmodel"
)

// countValue leaves the count input blank until a count was chosen.
func countValue(count int) string {
	if count <= 0 {
		return ""
	}
	return strconv.Itoa(count)
}

func posterSummary(count int, size string) string {
	s := strconv.Itoa(count) + " poster"
	if count != 1 {
		s += "s"
	}
	return s + ", " + size + " cm"
}

func canvasSummary(data viewmodel.CanvasPage) string {
	return strconv.Itoa(data.Count) + " x " + data.Size + " cm on a " + data.WallType + " wall, " + data.ThemeName
}
