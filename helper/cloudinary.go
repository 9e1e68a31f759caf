package helper

import (
	"log"
	"sync"

	"quicksports/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

var (
	cld     *cloudinary.Cloudinary
	cldOnce sync.Once
)

// Cloudinary returns the shared upload client, nil when not configured
func Cloudinary() *cloudinary.Cloudinary {
	cldOnce.Do(func() {
		name := config.Config("CLOUDINARY_CLOUD_NAME")
		if name == "" {
			return
		}
		client, err := cloudinary.NewFromParams(
			name,
			config.Config("CLOUDINARY_API_KEY"),
			config.Config("CLOUDINARY_API_SECRET"),
		)
		if err != nil {
			log.Printf("Cloudinary init failed: %v", err)
			return
		}
		cld = client
	})
	return cld
}
