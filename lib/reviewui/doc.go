// Copyright 2026 The QA2 Authors
// SPDX-License-Identifier: Apache-2.0

// Package reviewui is the terminal review interface for extracted
// question/answer pairs. It renders the pair list with per-row review
// glyphs and live aggregate counters, and maps pointer gestures to the
// two review mutations: primary click toggles the audited flag,
// secondary click toggles the irrelevant flag.
//
// The model trusts the review service as ground truth: a toggle is
// sent, and only the confirmed result mutates the row and adjusts the
// counters. A failed call changes nothing and surfaces a fading error
// notice in the status bar.
package reviewui
