package entity

// LandmarkCount is the number of points every pose detection must carry.
const LandmarkCount = 33

type LandmarkIndex int

const (
	Nose LandmarkIndex = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// The array length pins the table to LandmarkCount at compile time.
var landmarkNames = [LandmarkCount]string{
	Nose:           "nose",
	LeftEyeInner:   "left_eye_inner",
	LeftEye:        "left_eye",
	LeftEyeOuter:   "left_eye_outer",
	RightEyeInner:  "right_eye_inner",
	RightEye:       "right_eye",
	RightEyeOuter:  "right_eye_outer",
	LeftEar:        "left_ear",
	RightEar:       "right_ear",
	MouthLeft:      "mouth_left",
	MouthRight:     "mouth_right",
	LeftShoulder:   "left_shoulder",
	RightShoulder:  "right_shoulder",
	LeftElbow:      "left_elbow",
	RightElbow:     "right_elbow",
	LeftWrist:      "left_wrist",
	RightWrist:     "right_wrist",
	LeftPinky:      "left_pinky",
	RightPinky:     "right_pinky",
	LeftIndex:      "left_index",
	RightIndex:     "right_index",
	LeftThumb:      "left_thumb",
	RightThumb:     "right_thumb",
	LeftHip:        "left_hip",
	RightHip:       "right_hip",
	LeftKnee:       "left_knee",
	RightKnee:      "right_knee",
	LeftAnkle:      "left_ankle",
	RightAnkle:     "right_ankle",
	LeftHeel:       "left_heel",
	RightHeel:      "right_heel",
	LeftFootIndex:  "left_foot_index",
	RightFootIndex: "right_foot_index",
}

func (i LandmarkIndex) String() string {
	if i < 0 || int(i) >= LandmarkCount {
		return "unknown"
	}
	return landmarkNames[i]
}

// Landmark is a single detected keypoint. Z and Visibility are optional.
type Landmark struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          *float64 `json:"z,omitempty"`
	Visibility *float64 `json:"visibility,omitempty"`
}

type LandmarkSet struct {
	Landmarks      []Landmark `json:"landmarks"`
	PoseConfidence float64    `json:"pose_confidence"`
}

func (s LandmarkSet) At(i LandmarkIndex) Landmark {
	return s.Landmarks[i]
}

// PoseDetection is what the pose-estimation service hands back for one image.
type PoseDetection struct {
	Landmarks   []Landmark `json:"landmarks"`
	ImageWidth  int        `json:"image_width,omitempty"`
	ImageHeight int        `json:"image_height,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func (d *PoseDetection) Detected() bool {
	return d != nil && len(d.Landmarks) > 0
}

func LandmarkNames() []string {
	names := make([]string, LandmarkCount)
	copy(names, landmarkNames[:])
	return names
}
