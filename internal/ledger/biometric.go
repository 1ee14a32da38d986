package ledger

import (
	"fmt"
	"strings"
	"time"

	"billetera/internal/core"
	"billetera/internal/log"
)

// Biometric simulation timing.
const (
	DefaultBiometricLatency = 900 * time.Millisecond
	minBiometricLatency     = 400 * time.Millisecond
	biometricJitter         = 120 * time.Millisecond

	defaultBiometricLabel  = "Huella digital"
	defaultBiometricDevice = "Este dispositivo"
)

var biometricOutcomes = []core.BiometricResult{
	core.BiometricSuccess,
	core.BiometricMismatch,
	core.BiometricTimeout,
}

// SimulateBiometricValidation waits for a jittered delay and then records an
// attempt. With ExpectedMatch the outcome is success, otherwise it is drawn
// at random. The wait happens without holding the store lock and cannot be
// cancelled.
func (s *Store) SimulateBiometricValidation(req BiometricRequest) core.BiometricAttempt {
	s.sleep(s.biometricDelay(req.Latency))

	var out core.BiometricAttempt
	_ = s.commit(func() error {
		result := core.BiometricSuccess
		if !req.ExpectedMatch {
			result = biometricOutcomes[s.rng.Intn(len(biometricOutcomes))]
		}
		label := strings.TrimSpace(req.Label)
		if label == "" {
			label = defaultBiometricLabel
		}
		device := strings.TrimSpace(req.Device)
		if device == "" {
			device = defaultBiometricDevice
		}
		out = core.BiometricAttempt{
			ID:        s.newID(),
			Label:     label,
			Result:    result,
			Timestamp: s.now(),
			Device:    device,
		}
		s.biometricAttempts.prepend(out)
		if result == core.BiometricSuccess {
			s.biometricRegistered = true
		}
		s.notify(biometricTitle(result), fmt.Sprintf("%s en %s.", label, device), core.CategorySecurity)
		s.record(core.EventBiometricAttempt, out.ID, "", 0, string(result))
		return nil
	})
	s.logger.Info("Biometric attempt recorded",
		log.FieldOperation, log.OpBiometric, "result", string(out.Result))
	return out
}

// SimulateBiometricValidationAsync runs the simulation in a goroutine. The
// channel receives exactly one attempt and is then closed.
func (s *Store) SimulateBiometricValidationAsync(req BiometricRequest) <-chan core.BiometricAttempt {
	ch := make(chan core.BiometricAttempt, 1)
	go func() {
		defer close(ch)
		ch <- s.SimulateBiometricValidation(req)
	}()
	return ch
}

// biometricDelay returns max(400ms, latency ± up to 120ms).
func (s *Store) biometricDelay(latency time.Duration) time.Duration {
	if latency <= 0 {
		latency = DefaultBiometricLatency
	}
	s.mu.Lock()
	jitter := time.Duration(s.rng.Int63n(int64(2*biometricJitter)+1)) - biometricJitter
	s.mu.Unlock()
	if d := latency + jitter; d > minBiometricLatency {
		return d
	}
	return minBiometricLatency
}

func biometricTitle(r core.BiometricResult) string {
	switch r {
	case core.BiometricSuccess:
		return "Validación biométrica exitosa"
	case core.BiometricMismatch:
		return "Biometría no coincide"
	default:
		return "Validación biométrica expirada"
	}
}
