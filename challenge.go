/*
 * Copyright 2026 Holger de Carne
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package fritzhomeauto

import (
	"crypto/md5"
	"fmt"
	"regexp"
	"unicode/utf16"
)

var nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]`)

// ChallengeResponse computes the response sent back to the gateway during
// the login handshake.
//
// The gateway expects the MD5 digest of "<challenge>-<password>" encoded as
// UTF-16 little-endian, with every non-ASCII password character replaced by
// a '.' beforehand, prefixed again with the challenge. The encoding and the
// lowercase hex digest have to match the gateway exactly; a deviation is not
// reported as an error but simply ends in a rejected login.
func ChallengeResponse(password string, challenge string) string {
	sanitized := nonASCIIPattern.ReplaceAllString(password, ".")
	codeUnits := utf16.Encode([]rune(challenge + "-" + sanitized))
	hashInput := make([]byte, 0, len(codeUnits)*2)
	for _, codeUnit := range codeUnits {
		hashInput = append(hashInput, byte(codeUnit), byte(codeUnit>>8))
	}
	digest := md5.Sum(hashInput)
	return fmt.Sprintf("%s-%x", challenge, digest)
}
