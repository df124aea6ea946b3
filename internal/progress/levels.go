// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package progress implements the training progress domain: the six-level
program catalog, session logs, graduations, and dashboard aggregation.

# Architecture

The level catalog is static program content compiled into the binary; logs
and graduations live in PostgreSQL keyed by the session's user. Aggregation
(streaks, heatmap, personal bests) is pushed into SQL where a window function
does it best, and kept in Go where the rule is calendar arithmetic.
*/
package progress

// Exercise is a single drill within a level.
type Exercise struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Rx       string `json:"rx"`
	Video    string `json:"video,omitempty"`
	HasTimer bool   `json:"hasTimer,omitempty"`
}

// Level is one stage of the handstand program.
type Level struct {
	Num        int        `json:"num"`
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle"`
	Exercises  []Exercise `json:"exercises"`
	Graduation string     `json:"graduation"`
}

// Levels is the canonical program catalog, served verbatim to the frontend.
var Levels = []Level{
	{
		Num: 1, Title: "Building the Foundation", Subtitle: "Wrist strength, shoulder mobility, and core stability",
		Exercises: []Exercise{
			{Key: "wrist_heel_raises", Name: "Wrist Heel Raises", Rx: "10 reps, hold last rep 10 sec", Video: "https://www.youtube.com/watch?v=Uo4qAzodPlM&t=2m25s", HasTimer: true},
			{Key: "fin_pushups", Name: "Fin Push-ups", Rx: "10 reps, hold last rep 10 sec · 3–5 supersets", Video: "https://www.youtube.com/watch?v=Uo4qAzodPlM&t=2m47s", HasTimer: true},
			{Key: "desk_stretch_ext", Name: "Desk Stretch — External Rotation", Rx: "10 pulses, then hold 1–2 min", Video: "https://www.youtube.com/watch?v=Toe5JOHztek", HasTimer: true},
			{Key: "overhead_desk", Name: "Overhead Desk Stretch", Rx: "10 pulses, then hold 1–2 min", Video: "https://www.youtube.com/watch?v=G4wqA_e9r3I", HasTimer: true},
			{Key: "hang", Name: "Hang", Rx: "Accumulate 1 min (build to unbroken) · 3–5 sets", HasTimer: true},
			{Key: "protracted_plank", Name: "Protracted Plank", Rx: "Accumulate 1 min · 3–5 sets", HasTimer: true},
			{Key: "body_line_drill", Name: "Body-Line Drill", Rx: "Hold 30 sec (build to 1 min) · 3–5 sets", HasTimer: true},
		},
		Graduation: "Complete 5 sets of protracted plank 1 min, hang 1 min, and body-line drill 30 sec. All sets should feel relatively comfortable.",
	},
	{
		Num: 2, Title: "Going Upside Down", Subtitle: "Chest-to-wall, hollow body, loading weight through shoulders",
		Exercises: []Exercise{
			{Key: "wrist_fin_2", Name: "Wrist Heel Raises + Fin Push-ups", Rx: "10 reps each, hold last rep 10 sec · 3–5 supersets", Video: "https://www.youtube.com/watch?v=Uo4qAzodPlM&t=14s", HasTimer: true},
			{Key: "desk_hang_2", Name: "Desk Stretches + Hang", Rx: "10 pulses + hold; 1 min hang · 3–5 sets", HasTimer: true},
			{Key: "chest_to_wall", Name: "Chest-to-Wall Handstand", Rx: "Accumulate 1 min (build to unbroken) · 3–5 sets", Video: "https://www.youtube.com/watch?v=f1yLxNMq23A", HasTimer: true},
			{Key: "hollow_body", Name: "Hollow Body Hold", Rx: "Accumulate 1 min · 3–5 sets", HasTimer: true},
		},
		Graduation: "Complete 5 sets of chest-to-wall 1 min, hang 1 min, and hollow body 1 min. All sets should feel relatively comfortable.",
	},
	{
		Num: 3, Title: "Learning to Balance", Subtitle: "Heel pulls, toe pulls, and the balance game",
		Exercises: []Exercise{
			{Key: "wrist_fin_3", Name: "Wrist Heel Raises + Fin Push-ups", Rx: "10 reps each, hold last rep 10 sec · 3–5 supersets", Video: "https://www.youtube.com/watch?v=Uo4qAzodPlM&t=14s", HasTimer: true},
			{Key: "desk_hang_3", Name: "Desk Stretches + Hang", Rx: "1 min unbroken hang · 3–5 sets", HasTimer: true},
			{Key: "heel_pulls", Name: "Heel Pulls", Rx: "8–12 reps", Video: "https://www.youtube.com/watch?v=xm26KPUA7OI"},
			{Key: "toe_pulls", Name: "Toe Pulls", Rx: "8–12 reps · 5 sets (heel + toe per set)", Video: "https://www.youtube.com/watch?v=IBnOiDCXVKs"},
			{Key: "box_balance", Name: "Box-Assisted Balance Game", Rx: "10-minute practice block", Video: "https://youtu.be/huCWZYfvVYY", HasTimer: true},
			{Key: "ctw_3", Name: "Chest-to-Wall Handstand", Rx: "1 min unbroken · 3–5 sets", Video: "https://www.youtube.com/watch?v=f1yLxNMq23A", HasTimer: true},
		},
		Graduation: "Can find freestanding balance consistently for 3 to 5 seconds.",
	},
	{
		Num: 4, Title: "Finding the Hold", Subtitle: "Extended balance work and freestanding kick-ups",
		Exercises: []Exercise{
			{Key: "wrist_fin_4", Name: "Wrist Heel Raises + Fin Push-ups", Rx: "10 reps each, hold last rep 10 sec · 3–5 supersets", HasTimer: true},
			{Key: "desk_hang_4", Name: "Desk Stretches + Hang", Rx: "1 min unbroken hang · 3–5 sets", HasTimer: true},
			{Key: "balance_game_15", Name: "15-Minute Balance Game", Rx: "15-minute practice block", Video: "https://youtu.be/huCWZYfvVYY", HasTimer: true},
			{Key: "ctw_4", Name: "Chest-to-Wall Handstand", Rx: "1 min unbroken · 5 sets", Video: "https://www.youtube.com/watch?v=f1yLxNMq23A", HasTimer: true},
			{Key: "kickup", Name: "Kick-up Practice", Rx: "10 per leg · 5–10 sets", Video: "https://youtu.be/7defUKA3D3w"},
		},
		Graduation: "Can kick up and find balance consistently for 10 to 15 seconds.",
	},
	{
		Num: 5, Title: "Building Endurance", Subtitle: "Consistency, shoulder taps, and extending hold duration",
		Exercises: []Exercise{
			{Key: "wrist_fin_5", Name: "Wrist Heel Raises + Fin Push-ups", Rx: "10 reps each, hold last rep 10 sec · 3–5 supersets", HasTimer: true},
			{Key: "desk_hang_5", Name: "Desk Stretches + Hang", Rx: "1 min unbroken hang · 3–5 sets", HasTimer: true},
			{Key: "ctw_5", Name: "Chest-to-Wall Handstand", Rx: "1 min unbroken · 5 sets", Video: "https://www.youtube.com/watch?v=f1yLxNMq23A", HasTimer: true},
			{Key: "kickup_5", Name: "Kick-up Practice", Rx: "10 per leg · 5–10 sets", Video: "https://youtu.be/7defUKA3D3w"},
			{Key: "shoulder_tap", Name: "Handstand Shoulder Tap", Rx: "5 taps per side · 3–5 sets"},
		},
		Graduation: "Have a consistent handstand of 30+ seconds but have not yet achieved a 60-second hold.",
	},
	{
		Num: 6, Title: "The 60-Second Handstand", Subtitle: "The grind — chase the minute",
		Exercises: []Exercise{
			{Key: "freestanding", Name: "Freestanding Handstand", Rx: "1 min freestanding · 5 rounds (1 min work / 1 min rest)", Video: "https://youtu.be/fBiYbkG_Uqk", HasTimer: true},
		},
		Graduation: "Record a 60-second freestanding handstand on video. Congratulations — you have earned your handstand.",
	},
}

// exerciseNames maps exercise keys to display names for stats responses.
var exerciseNames = buildExerciseNames()

func buildExerciseNames() map[string]string {
	names := make(map[string]string)
	for _, level := range Levels {
		for _, exercise := range level.Exercises {
			names[exercise.Key] = exercise.Name
		}
	}
	return names
}

// ExerciseName resolves a key to its display name, falling back to the key.
func ExerciseName(key string) string {
	if name, ok := exerciseNames[key]; ok {
		return name
	}
	return key
}
