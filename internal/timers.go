package internal

// tickTimers decrements DT and ST once for every whole timer period elapsed
// since the previous tick. The reference time only advances by whole periods
// so that fractions carry over into the next check.
func (vm *C8VM) tickTimers() {
	elapsed := vm.clock().Sub(vm.prevTime)
	if elapsed < TimerPeriod {
		return
	}

	ticks := elapsed / TimerPeriod
	vm.prevTime = vm.prevTime.Add(ticks * TimerPeriod)

	for ; ticks > 0; ticks-- {
		if vm.delayTimer == 0 && vm.soundTimer == 0 {
			return
		}
		if vm.delayTimer > 0 {
			vm.delayTimer--
		}
		if vm.soundTimer > 0 {
			vm.soundTimer--
			if vm.soundTimer == 1 && vm.opts.Speaker != nil {
				vm.opts.Speaker.SoundEdge()
			}
		}
	}
}
