package uinput

// keyChange is one EV_KEY event to emit.
type keyChange struct {
	Code  int
	Press bool
}

// diffReport compares two boot keyboard reports and returns the Linux key
// events that turn the first into the second: releases first, then presses.
func diffReport(prevMod byte, prevKeys []byte, mod byte, keys []byte) []keyChange {
	var out []keyChange

	for usage := byte(0xE0); usage <= 0xE7; usage++ {
		mask := hidMaskFor(usage)
		if prevMod&mask != 0 && mod&mask == 0 {
			out = append(out, keyChange{Code: hidModifierToLinux[usage], Press: false})
		}
	}
	for _, k := range prevKeys {
		if k == 0 || contains(keys, k) {
			continue
		}
		if code, ok := hidToLinux[k]; ok {
			out = append(out, keyChange{Code: code, Press: false})
		}
	}

	for usage := byte(0xE0); usage <= 0xE7; usage++ {
		mask := hidMaskFor(usage)
		if prevMod&mask == 0 && mod&mask != 0 {
			out = append(out, keyChange{Code: hidModifierToLinux[usage], Press: true})
		}
	}
	for _, k := range keys {
		if k == 0 || contains(prevKeys, k) {
			continue
		}
		if code, ok := hidToLinux[k]; ok {
			out = append(out, keyChange{Code: code, Press: true})
		}
	}
	return out
}

func contains(keys []byte, k byte) bool {
	for _, v := range keys {
		if v == k {
			return true
		}
	}
	return false
}
