package main

import (
	"context"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cardealer/internal/config"
	"cardealer/internal/db"
	"cardealer/internal/model"
	"cardealer/internal/repository"
)

type seedUser struct {
	firstName string
	lastName  string
	email     string
	password  string
	phone     string
	role      model.UserRole
}

var seedUsers = []seedUser{
	{"Admin", "User", "admin@cardealership.com", "Admin123!", "1234567890", model.RoleAdmin},
	{"John", "Doe", "john.doe@email.com", "Customer123!", "0987654321", model.RoleCustomer},
}

type seedVehicle struct {
	make, model  string
	year         int
	color        string
	vin          string
	price        string
	mileage      int
	fuel         string
	transmission string
	description  string
}

var seedVehicles = []seedVehicle{
	{"Toyota", "Camry", 2022, "White", "1234567890ABCDEF1", "28500.00", 15000, "Gasoline", "Automatic", "Reliable sedan with excellent fuel economy"},
	{"Honda", "Civic", 2023, "Blue", "1234567890ABCDEF2", "25000.00", 8000, "Gasoline", "Manual", "Sporty and efficient compact car"},
	{"Ford", "F-150", 2021, "Black", "1234567890ABCDEF3", "42000.00", 25000, "Gasoline", "Automatic", "Powerful pickup truck for work and play"},
	{"BMW", "X5", 2022, "Silver", "1234567890ABCDEF4", "65000.00", 18000, "Gasoline", "Automatic", "Luxury SUV with premium features"},
	{"Tesla", "Model 3", 2023, "Red", "1234567890ABCDEF5", "45000.00", 5000, "Electric", "Automatic", "Electric vehicle with autopilot features"},
	{"Audi", "A4", 2022, "White", "1234567890ABCDEF6", "38000.00", 12000, "Gasoline", "Automatic", "Luxury sedan with advanced technology"},
	{"Mercedes-Benz", "C-Class", 2021, "Black", "1234567890ABCDEF7", "45000.00", 20000, "Gasoline", "Automatic", "Premium sedan with elegant design"},
	{"Chevrolet", "Malibu", 2022, "Gray", "1234567890ABCDEF8", "26000.00", 14000, "Gasoline", "Automatic", "Mid-size sedan with modern features"},
	{"Nissan", "Altima", 2023, "Blue", "1234567890ABCDEF9", "27500.00", 6000, "Gasoline", "CVT", "Comfortable sedan with good fuel economy"},
	{"Hyundai", "Elantra", 2022, "White", "1234567890ABCDEF0", "22000.00", 16000, "Gasoline", "Automatic", "Affordable and reliable compact sedan"},
	{"Jeep", "Wrangler", 2021, "Green", "1234567890ABCDEFG", "38000.00", 22000, "Gasoline", "Manual", "Off-road capable SUV with removable top"},
	{"Subaru", "Outback", 2022, "Silver", "1234567890ABCDEFH", "32000.00", 11000, "Gasoline", "CVT", "All-wheel drive wagon perfect for adventures"},
	{"Mazda", "CX-5", 2023, "Red", "1234567890ABCDEFI", "29000.00", 7500, "Gasoline", "Automatic", "Stylish SUV with premium interior"},
	{"Volkswagen", "Jetta", 2022, "Black", "1234567890ABCDEFJ", "24500.00", 13000, "Gasoline", "Automatic", "German engineering in a compact package"},
	{"Kia", "Sorento", 2023, "Gray", "1234567890ABCDEFK", "35000.00", 4000, "Gasoline", "Automatic", "Three-row SUV with advanced safety features"},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Vehicle{}, &model.Sale{}, &model.OtpCode{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	vehicleRepo := repository.NewVehicleRepository(gormDB)

	users := seedAccounts(ctx, userRepo)
	vehicles := seedInventory(ctx, vehicleRepo)

	log.Printf("Seed completed: %d users and %d vehicles created", users, vehicles)
}

// seedAccounts creates the admin and demo customer accounts, skipping any
// email already present.
func seedAccounts(ctx context.Context, userRepo repository.UserRepository) int {
	created := 0
	for _, u := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, u.email); err == nil {
			log.Printf("user %s already exists, skipping", u.email)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("check user %s: %v", u.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash password for %s: %v", u.email, err)
		}

		user := &model.User{
			FirstName:    u.firstName,
			LastName:     u.lastName,
			Email:        strings.ToLower(u.email),
			PasswordHash: string(hash),
			Phone:        u.phone,
			Role:         u.role,
			Active:       true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("create user %s: %v", u.email, err)
		}
		created++
	}
	return created
}

// seedInventory creates the sample vehicles, skipping VINs already listed.
func seedInventory(ctx context.Context, vehicleRepo repository.VehicleRepository) int {
	created := 0
	for _, v := range seedVehicles {
		exists, err := vehicleRepo.VINExists(ctx, v.vin, 0)
		if err != nil {
			log.Fatalf("check vin %s: %v", v.vin, err)
		}
		if exists {
			log.Printf("vehicle %s already exists, skipping", v.vin)
			continue
		}

		price, err := decimal.NewFromString(v.price)
		if err != nil {
			log.Fatalf("parse price for %s: %v", v.vin, err)
		}

		vehicle := &model.Vehicle{
			Make:         v.make,
			Model:        v.model,
			Year:         v.year,
			Color:        v.color,
			VIN:          v.vin,
			Price:        price,
			Mileage:      v.mileage,
			FuelType:     v.fuel,
			Transmission: v.transmission,
			Description:  v.description,
			Status:       model.VehicleStatusAvailable,
		}
		if err := vehicleRepo.Create(ctx, vehicle); err != nil {
			log.Fatalf("create vehicle %s: %v", v.vin, err)
		}
		created++
	}
	return created
}
