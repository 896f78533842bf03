package main

import (
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"household-help-server/models"
	"household-help-server/utils"
)

const seedPassword = "password123"

type seedWorker struct {
	email        string
	worker       models.Worker
	rating       float64
	totalReviews int
}

func seedTestWorkers(db *gorm.DB) error {
	reference := func(name, phone string) datatypes.JSONSlice[models.WorkerReference] {
		return datatypes.NewJSONSlice([]models.WorkerReference{{Name: name, Phone: phone, Relationship: "Previous Employer"}})
	}
	categories := func(c ...models.ServiceCategory) datatypes.JSONSlice[models.ServiceCategory] {
		return datatypes.NewJSONSlice(c)
	}
	strs := func(s ...string) datatypes.JSONSlice[string] {
		return datatypes.NewJSONSlice(s)
	}
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

	seeds := []seedWorker{
		{
			email: "priya@example.com", rating: 4.8, totalReviews: 25,
			worker: models.Worker{
				Name: "Priya Sharma", Phone: "+919876543210", Age: 28, Gender: "Female",
				Address: "Andheri West, Mumbai", City: "Mumbai", Pincode: "400058",
				Categories: categories(models.CategoryCleaning, models.CategoryCooking),
				Experience: 5, HourlyRate: 350, Availability: strs(weekdays...),
				Languages: strs("Hindi", "English", "Marathi"), GovernmentID: "AADHAAR123456789",
				References: reference("Mrs. Gupta", "+919876543211"),
			},
		},
		{
			email: "rajesh@example.com", rating: 4.6, totalReviews: 18,
			worker: models.Worker{
				Name: "Rajesh Kumar", Phone: "+919876543212", Age: 35, Gender: "Male",
				Address: "Connaught Place, Delhi", City: "Delhi", Pincode: "110001",
				Categories: categories(models.CategoryDriving, models.CategoryElderlyCare),
				Experience: 8, HourlyRate: 450, Availability: strs(append(weekdays, "Saturday")...),
				Languages: strs("Hindi", "English", "Punjabi"), GovernmentID: "AADHAAR987654321",
				References: reference("Mr. Singh", "+919876543213"),
			},
		},
		{
			email: "anita@example.com", rating: 4.9, totalReviews: 32,
			worker: models.Worker{
				Name: "Anita Patel", Phone: "+919876543214", Age: 32, Gender: "Female",
				Address: "Koramangala, Bangalore", City: "Bangalore", Pincode: "560034",
				Categories: categories(models.CategoryChildcare, models.CategoryCleaning),
				Experience: 6, HourlyRate: 400, Availability: strs(weekdays...),
				Languages: strs("English", "Hindi", "Kannada"), GovernmentID: "AADHAAR456789123",
				References: reference("Mrs. Reddy", "+919876543215"),
			},
		},
		{
			email: "mohammed@example.com", rating: 4.7, totalReviews: 15,
			worker: models.Worker{
				Name: "Mohammed Ali", Phone: "+919876543216", Age: 29, Gender: "Male",
				Address: "Banjara Hills, Hyderabad", City: "Hyderabad", Pincode: "500034",
				Categories: categories(models.CategoryCooking, models.CategoryPetCare),
				Experience: 4, HourlyRate: 320, Availability: strs(append(weekdays, "Saturday", "Sunday")...),
				Languages: strs("Hindi", "English", "Telugu", "Urdu"), GovernmentID: "AADHAAR789123456",
				References: reference("Dr. Khan", "+919876543217"),
			},
		},
		{
			email: "sunita@example.com", rating: 4.5, totalReviews: 28,
			worker: models.Worker{
				Name: "Sunita Devi", Phone: "+919876543218", Age: 38, Gender: "Female",
				Address: "T. Nagar, Chennai", City: "Chennai", Pincode: "600017",
				Categories: categories(models.CategoryElderlyCare, models.CategoryCooking),
				Experience: 10, HourlyRate: 380, Availability: strs(weekdays...),
				Languages: strs("Tamil", "English", "Hindi"), GovernmentID: "AADHAAR321654987",
				References: reference("Mrs. Iyer", "+919876543219"),
			},
		},
	}

	hashedPassword, err := utils.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	for _, seed := range seeds {
		var existing models.User
		if err := db.Where("email = ?", seed.email).First(&existing).Error; err == nil {
			log.Printf("⏭️  Test worker already exists: %s", seed.worker.Name)
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			phone := seed.worker.Phone
			user := models.User{
				Name:         seed.worker.Name,
				Email:        seed.email,
				Phone:        &phone,
				PasswordHash: hashedPassword,
				Role:         models.RoleWorker,
				IsActive:     true,
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			worker := seed.worker
			rating, total := seed.rating, seed.totalReviews
			email := seed.email
			worker.UserID = user.ID
			worker.Email = &email
			worker.VerificationStatus = models.VerificationVerified
			worker.AverageRating = &rating
			worker.TotalReviews = &total
			worker.IsActive = true
			return tx.Create(&worker).Error
		})
		if err != nil {
			log.Printf("Failed to create test worker %s: %v", seed.worker.Name, err)
			return err
		}
		log.Printf("✅ Created test worker: %s", seed.worker.Name)
	}

	return nil
}
