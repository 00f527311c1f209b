package vision

import (
	"math"
	"strings"
)

// SelectBestObject picks the grab candidate: high confidence wins, with a
// penalty for sitting far from the frame center. Returns nil when there are
// no detections.
func SelectBestObject(objects []DetectedObject, frameCenterX, frameCenterY int) *DetectedObject {
	var best *DetectedObject
	bestScore := math.MinInt32

	for i := range objects {
		obj := &objects[i]
		objX, objY := obj.BoundingBox.Center()
		dx := float64(objX - frameCenterX)
		dy := float64(objY - frameCenterY)
		centerDist := math.Hypot(dx, dy)

		score := int(obj.Confidence*100) - int(centerDist/10)
		if best == nil || score >= bestScore {
			bestScore = score
			best = obj
		}
	}
	return best
}

// ClassifyObjectType buckets a detector label into the object categories
// the grip patterns know about. Unknown labels fall back to small_object.
func ClassifyObjectType(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "cup"), strings.Contains(l, "mug"), strings.Contains(l, "glass"):
		return "cup"
	case strings.Contains(l, "bottle"):
		return "bottle"
	case strings.Contains(l, "phone"), strings.Contains(l, "cellphone"), strings.Contains(l, "mobile"):
		return "phone"
	case strings.Contains(l, "book"), strings.Contains(l, "notebook"):
		return "book"
	case strings.Contains(l, "pen"), strings.Contains(l, "pencil"):
		return "pen"
	default:
		return "small_object"
	}
}
