package director

// ScheduleScenes lays out the hook, the value steps and the CTA.
//
// Steps follow the hook back to back. The CTA starts right after the last step,
// unless that would push it past TotalFrames, in which case it is pulled earlier
// and overlaps the tail steps. When everything fits, frames between the CTA end
// and TotalFrames carry no narrative scene.
func ScheduleScenes(cfg TimelineConfig, stepCount int) Schedule {
	if stepCount < 0 {
		stepCount = 0
	}

	s := Schedule{
		Hook:  Window{Start: 0, Length: cfg.HookDuration},
		Steps: make([]Window, stepCount),
	}

	for i := 0; i < stepCount; i++ {
		s.Steps[i] = Window{
			Start:  cfg.HookDuration + i*cfg.StepDuration,
			Length: cfg.StepDuration,
		}
	}

	afterSteps := cfg.HookDuration + stepCount*cfg.StepDuration
	s.CTA = Window{
		Start:  min(afterSteps, cfg.TotalFrames-cfg.CTADuration),
		Length: cfg.CTADuration,
	}

	return s
}

// ActiveAt returns every narrative window containing frame, in hook, steps, cta order.
// More than one entry only happens when the CTA was pulled over the tail steps.
func (s Schedule) ActiveAt(frame int) []ActiveScene {
	var active []ActiveScene

	if s.Hook.Contains(frame) {
		active = append(active, ActiveScene{Kind: SceneHook, Window: s.Hook})
	}
	for i, w := range s.Steps {
		if w.Contains(frame) {
			active = append(active, ActiveScene{Kind: SceneStep, Index: i, Window: w})
		}
	}
	if s.CTA.Contains(frame) {
		active = append(active, ActiveScene{Kind: SceneCTA, Window: s.CTA})
	}

	return active
}

// Overlaps reports whether the CTA window starts before the last step ends
func (s Schedule) Overlaps() bool {
	if len(s.Steps) == 0 {
		return s.CTA.Start < s.Hook.End()
	}
	return s.CTA.Start < s.Steps[len(s.Steps)-1].End()
}

// TailGap returns the number of frames after the CTA with no narrative scene
func (s Schedule) TailGap(totalFrames int) int {
	gap := totalFrames - s.CTA.End()
	if gap < 0 {
		return 0
	}
	return gap
}
