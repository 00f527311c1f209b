package control

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dexhand/dexhand/pkg/vision"
)

// MovementAction is one verb the planner may emit.
type MovementAction string

const (
	ActionMoveToPosition MovementAction = "MoveToPosition"
	ActionOpenHand       MovementAction = "OpenHand"
	ActionCloseHand      MovementAction = "CloseHand"
	ActionGrasp          MovementAction = "Grasp"
	ActionRelease        MovementAction = "Release"
	ActionRotateWrist    MovementAction = "RotateWrist"
	ActionApproach       MovementAction = "Approach"
	ActionRetreat        MovementAction = "Retreat"
	ActionWait           MovementAction = "Wait"
)

// MovementParameters carries the optional arguments of a command; nil
// means the planner left the parameter unset.
type MovementParameters struct {
	TargetXCm    *float64 `json:"target_x_cm"`
	TargetYCm    *float64 `json:"target_y_cm"`
	TargetZCm    *float64 `json:"target_z_cm"`
	WristPitch   *float64 `json:"wrist_pitch"`
	WristRoll    *float64 `json:"wrist_roll"`
	GripStrength *float64 `json:"grip_strength"`
	DurationMs   *int64   `json:"duration_ms"`
}

// MovementCommand is one planned step with the model's rationale.
type MovementCommand struct {
	Action     MovementAction     `json:"action"`
	Parameters MovementParameters `json:"parameters"`
	Reasoning  string             `json:"reasoning"`
}

// HandPoseEstimate is the camera's view of the hand, when hand tracking
// found one.
type HandPoseEstimate struct {
	PalmCenter    [3]float64   `json:"palm_center"`
	WristPosition [3]float64   `json:"wrist_position"`
	FingerTips    [][3]float64 `json:"finger_tips"`
	IsOpen        bool         `json:"is_open"`
	Confidence    float64      `json:"confidence"`
}

// SceneState is everything the planner sees for one planning call.
type SceneState struct {
	TargetObject        vision.DetectedObject   `json:"target_object"`
	ObjectDepthCm       float64                 `json:"object_depth_cm"`
	HandPose            *HandPoseEstimate       `json:"hand_pose"`
	OtherObjects        []vision.DetectedObject `json:"other_objects"`
	CameraFovHorizontal float64                 `json:"camera_fov_horizontal"`
	CameraFovVertical   float64                 `json:"camera_fov_vertical"`
}

const plannerSystemPrompt = `You are a robot movement planner for a 5-finger robotic hand.

CAPABILITIES:
- 5 articulated fingers (Thumb, Index, Middle, Ring, Pinky)
- Each finger has 3 joints with 0-90° range
- 2-axis wrist (pitch and roll)
- Servo-based position control (precise but not force-sensing)

COORDINATE SYSTEM:
- X: left (-) to right (+)
- Y: down (-) to up (+)
- Z: camera (0) to away (+)
- All measurements in centimeters

SAFETY CONSTRAINTS:
- Maximum reach: ~30cm from wrist
- Approach speed: slow for fragile objects, normal for sturdy
- Never command movements that would collide with other objects
- If uncertain, use conservative grip strength

OUTPUT FORMAT:
Return ONLY valid JSON with movement commands. Each command must have:
- action: one of the predefined action types
- parameters: relevant numerical values (use null for unused parameters)
- reasoning: 1-2 sentence explanation

Be concise and direct. Prioritize safety and success rate over speed.`

// Planner asks an OpenAI-compatible chat model for movement plans.
type Planner struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewPlanner reads the API key from OPENAI_API_KEY.
func NewPlanner() (*Planner, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return &Planner{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		model:   "gpt-5-nano-2025-08-07",
	}, nil
}

// WithModel overrides the model name.
func (p *Planner) WithModel(model string) *Planner {
	p.model = model
	return p
}

// WithBaseURL points the planner at a different OpenAI-compatible host.
func (p *Planner) WithBaseURL(baseURL string) *Planner {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateMovementPlan asks the model for a command sequence to grasp the
// scene's target object.
func (p *Planner) GenerateMovementPlan(ctx context.Context, scene *SceneState) ([]MovementCommand, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: plannerSystemPrompt},
			{Role: "user", Content: buildPrompt(scene)},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, fmt.Errorf("encode planner request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build planner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read planner response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("parse planner response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("planner API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	return ParseCommands(parsed.Choices[0].Message.Content)
}

// ParseCommands extracts the JSON command list from model output, which
// may be wrapped in prose or code fences.
func ParseCommands(content string) ([]MovementCommand, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON found in model response")
	}

	var wrapper struct {
		Commands []MovementCommand `json:"commands"`
	}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &wrapper); err != nil {
		return nil, fmt.Errorf("parse model commands: %w", err)
	}
	return wrapper.Commands, nil
}

func buildPrompt(scene *SceneState) string {
	handInfo := "Hand position unknown - will need to estimate starting position"
	if pose := scene.HandPose; pose != nil {
		handInfo = fmt.Sprintf(
			"Hand detected at position: (%.1f, %.1f, %.1f) cm, Palm center: (%.1f, %.1f, %.1f), Open: %t, Confidence: %.2f",
			pose.WristPosition[0], pose.WristPosition[1], pose.WristPosition[2],
			pose.PalmCenter[0], pose.PalmCenter[1], pose.PalmCenter[2],
			pose.IsOpen, pose.Confidence)
	}

	otherInfo := "No other objects detected in scene"
	if len(scene.OtherObjects) > 0 {
		parts := make([]string, len(scene.OtherObjects))
		for i, obj := range scene.OtherObjects {
			parts[i] = fmt.Sprintf("%s at (%d, %d) with depth ~%.0fcm",
				obj.Label, obj.BoundingBox.X, obj.BoundingBox.Y, obj.Distance)
		}
		otherInfo = "Other objects in scene: " + strings.Join(parts, ", ")
	}

	return fmt.Sprintf(`SCENE ANALYSIS:

TARGET OBJECT:
- Type: %s
- Confidence: %.2f
- Position in frame: (%d, %d)
- Bounding box size: %dx%d pixels
- Estimated depth: %.1f cm

HAND STATE:
%s

ENVIRONMENT:
%s
- Camera FOV: %.1f° horizontal, %.1f° vertical

TASK: Generate a sequence of movement commands to safely grasp the target object.

Respond ONLY with valid JSON in this exact format:
{
  "commands": [
    {
      "action": "MoveToPosition" | "OpenHand" | "CloseHand" | "Grasp" | "Release" | "RotateWrist" | "Approach" | "Retreat" | "Wait",
      "parameters": {
        "target_x_cm": float | null,
        "target_y_cm": float | null,
        "target_z_cm": float | null,
        "wrist_pitch": float | null,
        "wrist_roll": float | null,
        "grip_strength": float | null,
        "duration_ms": int | null
      },
      "reasoning": "brief explanation"
    }
  ]
}

Consider:
1. Hand must approach from above or side depending on object type
2. Grasp force appropriate for object (fragile vs sturdy)
3. Avoid collisions with other objects
4. Smooth motion trajectory
5. If hand position unknown, start with safe default approach`,
		scene.TargetObject.Label,
		scene.TargetObject.Confidence,
		scene.TargetObject.BoundingBox.X, scene.TargetObject.BoundingBox.Y,
		scene.TargetObject.BoundingBox.Width, scene.TargetObject.BoundingBox.Height,
		scene.ObjectDepthCm,
		handInfo,
		otherInfo,
		scene.CameraFovHorizontal, scene.CameraFovVertical)
}
