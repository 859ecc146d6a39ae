// Command keygen prints fresh random secrets for a TaskVault deployment:
// a 32-byte hex field-encryption key and two signing secrets.
package main

import (
	"fmt"
	"log"

	"taskvault/internal/common"
)

func main() {
	fieldKey, err := common.MakeRandHexString(32)
	if err != nil {
		log.Fatalf("error generating field key: %v", err)
	}
	accessSecret, err := common.MakeRandHexString(32)
	if err != nil {
		log.Fatalf("error generating access secret: %v", err)
	}
	refreshSecret, err := common.MakeRandHexString(32)
	if err != nil {
		log.Fatalf("error generating refresh secret: %v", err)
	}

	fmt.Printf("FIELD_ENC_KEY=%s\n", fieldKey)
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("REFRESH_SECRET=%s\n", refreshSecret)
}
