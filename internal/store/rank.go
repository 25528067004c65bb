package store

import (
	"errors"
	"strings"
)

// Ranks are lowercase base36 strings compared lexicographically. A new rank is
// the fractional midpoint between its neighbours, so a move rewrites one row.

const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	rankMinDigit = 0
	rankMaxDigit = len(rankAlphabet) - 1
	// Upper bound on generated rank length; reached only after pathological churn.
	rankMaxLen = 256
)

var (
	ErrNoRankSpace   = errors.New("no space between ranks")
	errRankOrder     = errors.New("rank bounds out of order")
	errRankCharacter = errors.New("invalid rank character")
)

func rankDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return 10 + int(c-'a'), true
	default:
		return 0, false
	}
}

func validRank(r string) bool {
	for i := 0; i < len(r); i++ {
		if _, ok := rankDigit(r[i]); !ok {
			return false
		}
	}
	return true
}

func normRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

// RankBetween returns a rank strictly between lo and hi. An empty lo means no
// lower bound and an empty hi means no upper bound.
func RankBetween(lo, hi string) (string, error) {
	lo, hi = normRank(lo), normRank(hi)
	if !validRank(lo) || !validRank(hi) {
		return "", errRankCharacter
	}
	if lo != "" && hi != "" && lo >= hi {
		return "", errRankOrder
	}

	digitAt := func(s string, i, missing int) (int, error) {
		if i >= len(s) {
			return missing, nil
		}
		d, ok := rankDigit(s[i])
		if !ok {
			return 0, errRankCharacter
		}
		return d, nil
	}
	within := func(r string) bool {
		return r != "" && (lo == "" || lo < r) && (hi == "" || r < hi)
	}

	// Once a digit falls strictly below hi's, hi stops constraining later digits.
	hiOpen := hi == ""
	prefix := make([]byte, 0, 8)
	for i := 0; i < rankMaxLen; i++ {
		dl, err := digitAt(lo, i, rankMinDigit)
		if err != nil {
			return "", err
		}
		dh := rankMaxDigit
		if !hiOpen {
			if dh, err = digitAt(hi, i, rankMaxDigit); err != nil {
				return "", err
			}
		}

		switch {
		case dh-dl > 1:
			prefix = append(prefix, rankAlphabet[dl+(dh-dl)/2])
			if r := string(prefix); within(r) {
				return r, nil
			}
			// hi extends lo by only minimal digits (e.g. "y" and "y0").
			return "", ErrNoRankSpace
		case dh-dl == 1:
			prefix = append(prefix, rankAlphabet[dl])
			hiOpen = true
		default:
			prefix = append(prefix, rankAlphabet[dl])
			if r := string(prefix); i >= len(lo) && within(r) {
				return r, nil
			}
		}
	}
	return "", ErrNoRankSpace
}

func RankAfter(lo string) (string, error) { return RankBetween(lo, "") }
func RankInitial() (string, error)        { return RankBetween("", "") }

// rankBetweenUnique is RankBetween that skips ranks already in taken, tightening
// the lower bound after each collision.
func rankBetweenUnique(taken map[string]bool, lo, hi string) (string, error) {
	cur := normRank(lo)
	hi = normRank(hi)
	for i := 0; i < rankMaxLen; i++ {
		r, err := RankBetween(cur, hi)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		cur = r
	}
	return "", errors.New("unable to find unique rank")
}
