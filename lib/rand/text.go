//
// See the file COPYRIGHT for copyright information.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package rand

import (
	cryptorand "crypto/rand"
	mathrand "math/rand/v2"
	"sync"
)

const base32alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// EmergencyIDLength is the length of the opaque tokens used as emergency IDs.
const EmergencyIDLength = 8

var (
	chacha *mathrand.ChaCha8
	locker sync.Mutex
)

func init() {
	var seed [32]byte
	_, _ = cryptorand.Reader.Read(seed[:])
	chacha = mathrand.NewChaCha8(seed)
}

// EmergencyID generates an 8-character opaque token for use as an emergency ID.
// It's collision-resistant over a process lifetime (32^8 values), which is all
// the registry needs, and it is not meant to be cryptographically secure.
func EmergencyID() string {
	return NonCryptoText(EmergencyIDLength)
}

// NonCryptoText generates a random base32 string of the given length. It is like the
// standard library's rand.Text, but it's fast rather than cryptographically secure.
// Indeed, it is faster than uuid.NewString, and it generates nicer, shorter strings.
func NonCryptoText(length int) string {
	locker.Lock()
	defer locker.Unlock()
	src := make([]byte, length)
	// This never returns an error
	_, _ = chacha.Read(src)
	for i := range src {
		src[i] = base32alphabet[src[i]%32]
	}
	return string(src)
}
