// Package vision holds the perception side: detected objects and their
// geometry, object-to-grip classification, grip pattern presets, and the
// client for the external depth estimation service.
package vision

import (
	"math"
	"strings"
	"time"
)

// BoundingBox is an axis-aligned pixel box in frame coordinates.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the box's center pixel.
func (b BoundingBox) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

func (b BoundingBox) Area() int { return b.Width * b.Height }

// DetectedObject is one detection with its label, confidence in [0,1],
// pixel box and estimated distance in meters.
type DetectedObject struct {
	Label       string      `json:"label"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
	Distance    float64     `json:"distance"`
}

// ObjectTrackingData augments a detection with frame-normalized metrics and
// camera-relative angles, the summary handed to the motion planner.
type ObjectTrackingData struct {
	Object             DetectedObject `json:"object"`
	CenterXNorm        float64        `json:"center_x_norm"`
	CenterYNorm        float64        `json:"center_y_norm"`
	WidthNorm          float64        `json:"width_norm"`
	HeightNorm         float64        `json:"height_norm"`
	AreaRatio          float64        `json:"area_ratio"`
	EstimatedDepthCm   float64        `json:"estimated_depth_cm"`
	HorizontalAngleDeg float64        `json:"horizontal_angle_deg"`
	VerticalAngleDeg   float64        `json:"vertical_angle_deg"`
	FrameWidth         int            `json:"frame_width"`
	FrameHeight        int            `json:"frame_height"`
	TimestampMs        int64          `json:"timestamp_ms"`
}

// Assumed camera field of view, degrees.
const (
	fovHorizontal = 60.0
	fovVertical   = 45.0
)

// NewTrackingData computes the normalized metrics for one detection.
func NewTrackingData(object DetectedObject, frameWidth, frameHeight int) ObjectTrackingData {
	centerX, centerY := object.BoundingBox.Center()

	centerXNorm := float64(centerX) / float64(frameWidth)
	centerYNorm := float64(centerY) / float64(frameHeight)

	return ObjectTrackingData{
		Object:             object,
		CenterXNorm:        centerXNorm,
		CenterYNorm:        centerYNorm,
		WidthNorm:          float64(object.BoundingBox.Width) / float64(frameWidth),
		HeightNorm:         float64(object.BoundingBox.Height) / float64(frameHeight),
		AreaRatio:          float64(object.BoundingBox.Area()) / float64(frameWidth*frameHeight),
		EstimatedDepthCm:   EstimateDepthCm(object.Label, object.BoundingBox.Height, frameHeight),
		HorizontalAngleDeg: (centerXNorm - 0.5) * fovHorizontal,
		VerticalAngleDeg:   (0.5 - centerYNorm) * fovVertical,
		FrameWidth:         frameWidth,
		FrameHeight:        frameHeight,
		TimestampMs:        time.Now().UnixMilli(),
	}
}

// EstimateDepthCm guesses distance from apparent size using a pinhole model
// and a table of typical object heights. Result is clamped to 10..500 cm.
func EstimateDepthCm(label string, boxHeight, frameHeight int) float64 {
	var typicalHeightCm float64
	switch strings.ToLower(label) {
	case "bottle", "wine glass", "cup":
		typicalHeightCm = 20
	case "person":
		typicalHeightCm = 170
	case "cell phone", "remote", "mouse":
		typicalHeightCm = 15
	case "laptop", "keyboard":
		typicalHeightCm = 25
	case "book":
		typicalHeightCm = 25
	case "clock":
		typicalHeightCm = 30
	case "chair":
		typicalHeightCm = 90
	case "couch":
		typicalHeightCm = 80
	default:
		typicalHeightCm = 25
	}

	focalLength := float64(frameHeight) * 0.7
	distance := typicalHeightCm * focalLength / math.Max(float64(boxHeight), 1)

	if distance < 10 {
		return 10
	}
	if distance > 500 {
		return 500
	}
	return distance
}
