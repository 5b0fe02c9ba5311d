package handler

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// ActorHash 访客地址的匿名标识，存储层只接触该值
func ActorHash(salt, ip string) string {
	sum := blake2b.Sum256([]byte(salt + "|" + ip))
	return hex.EncodeToString(sum[:])
}
