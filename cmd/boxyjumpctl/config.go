package main

import (
	"encoding/json"
	"fmt"
	"os"

	"boxyjump/pkg/boxyjump"
)

// loadRunRequestFromConfig overlays the keys present in the file on
// DefaultRunRequest, so an explicit 0 in the file is kept.
func loadRunRequestFromConfig(path string) (boxyjump.RunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return boxyjump.RunRequest{}, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return boxyjump.RunRequest{}, err
	}

	req := boxyjump.DefaultRunRequest()
	if v, ok := asString(raw["run_id"]); ok {
		req.RunID = v
	}
	if v, ok := asInt64(raw["seed"]); ok {
		req.Seed = v
	}
	if v, ok := asInt64(raw["course_seed"]); ok {
		req.CourseSeed = v
	}
	if v, ok := asInt(raw["generations"]); ok {
		req.Generations = v
	}
	if v, ok := asFloat64(raw["mutation_chance"]); ok {
		req.MutationChance = v
	}
	if v, ok := asFloat64(raw["mutation_rate"]); ok {
		req.MutationRate = v
	}
	if v, ok := asFloat64(raw["significant_progress"]); ok {
		req.SignificantProgress = v
	}
	if v, ok := asFloat64(raw["max_life_seconds"]); ok {
		req.MaxLifeSeconds = v
	}
	return req, nil
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

// overrideFromFlags applies only the flags the user set explicitly, so a
// config file keeps its values for everything else.
func overrideFromFlags(req *boxyjump.RunRequest, set map[string]bool, flagValue map[string]any) {
	for name := range set {
		v, ok := flagValue[name]
		if !ok {
			continue
		}
		switch name {
		case "run-id":
			req.RunID = v.(string)
		case "seed":
			req.Seed = v.(int64)
		case "course-seed":
			req.CourseSeed = v.(int64)
		case "gens":
			req.Generations = v.(int)
		case "mutation-chance":
			req.MutationChance = v.(float64)
		case "mutation-rate":
			req.MutationRate = v.(float64)
		case "significant-progress":
			req.SignificantProgress = v.(float64)
		case "max-life":
			req.MaxLifeSeconds = v.(float64)
		}
	}
}

func loadOrDefaultRunRequest(configPath string) (boxyjump.RunRequest, error) {
	if configPath == "" {
		return boxyjump.DefaultRunRequest(), nil
	}
	req, err := loadRunRequestFromConfig(configPath)
	if err != nil {
		return boxyjump.RunRequest{}, fmt.Errorf("load config: %w", err)
	}
	return req, nil
}
