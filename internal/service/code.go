package service

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// CodeGenerator 确认码生成器，字符集和长度由配置传入
type CodeGenerator struct {
	Alphabet string
	Length   int
}

// Generate 生成一次性确认码
func (g CodeGenerator) Generate() (string, error) {
	if g.Length <= 0 || len(g.Alphabet) == 0 {
		return "", errors.New("code generator: empty alphabet or non-positive length")
	}
	max := big.NewInt(int64(len(g.Alphabet)))
	buf := make([]byte, g.Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = g.Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// hashCode 确认码只以 bcrypt 哈希形式落库
func hashCode(code string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// matchCode 精确匹配（区分大小写、长度一致）
func matchCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
