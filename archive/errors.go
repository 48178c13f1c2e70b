package archive

import "errors"

// ErrNotAnArchive means the plist's root value does not follow the
// NSKeyedArchiver convention (spec.md §4.6): the root is not a Dict, or
// one of $archiver/$version/$objects/$top is missing or mistyped. Analyze
// never returns this directly; it is recorded by leaving the returned
// model's Valid field false, matching the analyzer's contract (spec.md
// §6.3, §7: "the analyzer returns an invalid model... any caller must test
// this flag").
var ErrNotAnArchive = errors.New("archive: not a recognised NSKeyedArchiver plist")
