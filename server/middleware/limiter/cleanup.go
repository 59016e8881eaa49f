// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

// maybeCleanup sweeps expired buckets in the background, at most once per CleanupInterval.
func (l *Limiter) maybeCleanup() {
	now := l.now()

	l.cleanupMu.Lock()
	defer l.cleanupMu.Unlock()

	if l.lastCleanupAt.IsZero() {
		l.lastCleanupAt = now

		return
	}

	if now.Sub(l.lastCleanupAt) < CleanupInterval {
		return
	}

	l.lastCleanupAt = now

	go l.cleanupExpiredLimiters()
}
