package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"fincompare/internal/models"
	"fincompare/internal/repository"
	"fincompare/pkg/auth"
	"fincompare/pkg/config"
	"fincompare/pkg/logger"
	"fincompare/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	numProductsPerInstitution = 5
	numFeesPerProduct         = 3
	numFXRatesPerInstitution  = 4
	numUsers                  = 20
	defaultPassword           = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	seeder := &seeder{
		users:        repository.NewUserRepository(db, appLogger),
		institutions: repository.NewInstitutionRepository(db, appLogger),
		products:     repository.NewProductRepository(db, appLogger),
		fees:         repository.NewFeeRepository(db, appLogger),
		rates:        repository.NewFXRateRepository(db, appLogger),
		accounts:     repository.NewAccountRepository(db, appLogger),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:       appLogger,
	}

	appLogger.Info("Starting database seeding...")
	if err := seeder.run(ctx); err != nil {
		appLogger.Fatal("Seeding failed", zap.Error(err))
	}
	appLogger.Info("Database seeding completed successfully!")
}

type seeder struct {
	users        *repository.UserRepository
	institutions *repository.InstitutionRepository
	products     *repository.ProductRepository
	fees         *repository.FeeRepository
	rates        *repository.FXRateRepository
	accounts     *repository.AccountRepository
	rng          *rand.Rand
	logger       *zap.Logger
}

func (s *seeder) run(ctx context.Context) error {
	users, err := s.createUsers(ctx)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	institutions, err := s.createInstitutions(ctx)
	if err != nil {
		return fmt.Errorf("create institutions: %w", err)
	}

	categories, err := s.createCategories(ctx)
	if err != nil {
		return fmt.Errorf("create categories: %w", err)
	}

	products, err := s.createProducts(ctx, institutions, categories)
	if err != nil {
		return fmt.Errorf("create products: %w", err)
	}

	if err := s.createFees(ctx, products); err != nil {
		return fmt.Errorf("create fees: %w", err)
	}

	if err := s.createFXRates(ctx, institutions); err != nil {
		return fmt.Errorf("create fx rates: %w", err)
	}

	if err := s.createAccounts(ctx, users, institutions, products); err != nil {
		return fmt.Errorf("create accounts: %w", err)
	}

	return nil
}

var (
	jordanianFirstNames = []string{
		"Ahmed", "Mohammed", "Omar", "Ali", "Hassan", "Khaled", "Youssef",
		"Fadi", "Tariq", "Fatima", "Amina", "Layla", "Nour", "Sara", "Reem",
		"Dina", "Rana", "Lina", "Abdullah", "Mahmoud", "Waleed", "Jamal",
		"Sami", "Rami", "Zaid", "Marwan", "Basel",
	}
	jordanianLastNames = []string{
		"Al-Ahmad", "Al-Omar", "Al-Hassan", "Al-Khouri", "Qasemi", "Nabulsi",
		"Hijazi", "Masri", "Shami", "Khoury", "Haddad", "Mansour", "Saleh",
		"Nasser", "Farah", "Zayed", "Khalil", "Ibrahim", "Yousef", "Rashid",
		"Hamdan", "Najjar", "Awad", "Karam",
	}
	emailDomains = []string{"gmail.com", "yahoo.com", "hotmail.com", "outlook.com"}
)

func (s *seeder) createUsers(ctx context.Context) ([]*models.User, error) {
	hashed, err := auth.HashPassword(defaultPassword)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var users []*models.User
	now := time.Now()

	for len(users) < numUsers {
		first := jordanianFirstNames[s.rng.Intn(len(jordanianFirstNames))]
		last := jordanianLastNames[s.rng.Intn(len(jordanianLastNames))]

		base := strings.ToLower(first) + "." + strings.ToLower(strings.NewReplacer("-", "", "Al", "").Replace(last))
		username := fmt.Sprintf("%s%d", base, s.rng.Intn(9999)+1)
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}

		user := &models.User{
			ID:        uuid.New(),
			Username:  username,
			Email:     fmt.Sprintf("%s@%s", username, emailDomains[s.rng.Intn(len(emailDomains))]),
			Password:  hashed,
			FirstName: first,
			LastName:  last,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	s.logger.Info("Created sample users", zap.Int("count", len(users)), zap.String("password", defaultPassword))
	return users, nil
}

type bankData struct {
	name    string
	website string
	city    string
	area    string
}

// readJordanBanksCSV loads bank names and locations from banksjordan.csv,
// falling back to a built-in dataset when the file is missing.
func (s *seeder) readJordanBanksCSV() []bankData {
	file, err := os.Open("banksjordan.csv")
	if err != nil {
		s.logger.Warn("banksjordan.csv not found, using fallback data", zap.Error(err))
		return fallbackBanks()
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		s.logger.Warn("Failed to read banksjordan.csv, using fallback data", zap.Error(err))
		return fallbackBanks()
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[name] = i
	}

	var banks []bankData
	for _, row := range rows[1:] {
		location := row[header["Headquarter Location"]]
		city, area := location, "Central"
		if parts := strings.SplitN(location, " - ", 2); len(parts) == 2 {
			city, area = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		banks = append(banks, bankData{
			name:    row[header["Bank Name"]],
			website: row[header["Website"]],
			city:    city,
			area:    area,
		})
	}

	s.logger.Info("Loaded banks from CSV", zap.Int("count", len(banks)))
	return banks
}

func fallbackBanks() []bankData {
	return []bankData{
		{"Arab Bank", "https://arabbank.com.jo", "Amman", "Shmeisani"},
		{"Bank of Jordan", "https://bankofjordan.com", "Amman", "Abdali"},
		{"Cairo Amman Bank", "https://cab.jo", "Amman", "Wadi Saqra"},
		{"Capital Bank of Jordan", "https://capitalbank.jo", "Amman", "Shmeisani"},
		{"Housing Bank for Trade & Finance", "https://hbtf.com", "Amman", "Shmeisani"},
		{"Jordan Commercial Bank", "https://jcbank.com.jo", "Amman", "Shmeisani"},
		{"Jordan Kuwait Bank", "https://www.jkb.com", "Amman", "Shmeisani"},
		{"Jordan Ahli Bank", "https://ahli.com", "Amman", "Abdali"},
	}
}

func (s *seeder) createInstitutions(ctx context.Context) ([]*models.Institution, error) {
	banks := s.readJordanBanksCSV()
	var institutions []*models.Institution

	for _, bank := range banks {
		addr := &models.Address{
			ID:          uuid.New(),
			Country:     "Jordan",
			City:        bank.city,
			Street:      fmt.Sprintf("%d King Hussein St", s.rng.Intn(200)+1),
			Area:        bank.area,
			State:       "Amman",
			Postcode:    fmt.Sprintf("%05d", s.rng.Intn(90000)+10000),
			CountryCode: "JO",
			// Amman coordinates with a small variation per branch.
			Latitude:  decimal.NewNullDecimal(decimal.NewFromFloat(31.9566 + s.rng.Float64()*0.2 - 0.1).Round(6)),
			Longitude: decimal.NewNullDecimal(decimal.NewFromFloat(35.9457 + s.rng.Float64()*0.2 - 0.1).Round(6)),
		}
		if err := s.institutions.CreateAddress(ctx, addr); err != nil {
			return nil, err
		}

		inst := &models.Institution{
			ID:           uuid.New(),
			Name:         bank.name,
			WebsiteURL:   bank.website,
			ContactEmail: contactEmail(bank.name),
			ContactPhone: fmt.Sprintf("+962 6 %d", s.rng.Intn(2000000)+4000000),
			AddressID:    &addr.ID,
			Type:         institutionType(bank.name),
			BICCode:      fmt.Sprintf("%sJOAX", strings.ToUpper(bank.name[:4])),
		}
		inst.BICCode = strings.ReplaceAll(inst.BICCode, " ", "X")
		if err := s.institutions.Create(ctx, inst); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}

	s.logger.Info("Created financial institutions", zap.Int("count", len(institutions)))
	return institutions, nil
}

func institutionType(name string) models.InstitutionType {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "digital"), strings.Contains(lower, "fintech"):
		return models.InstitutionTypeFintech
	case strings.Contains(lower, "islamic"):
		return models.InstitutionTypeIslamicBank
	case strings.Contains(lower, "central"):
		return models.InstitutionTypeCentralBank
	default:
		return models.InstitutionTypeBank
	}
}

func contactEmail(bankName string) string {
	clean := strings.ToLower(bankName)
	clean = strings.NewReplacer(" ", "", "&", "", "-", "").Replace(clean)
	if len(clean) > 15 {
		clean = clean[:15]
	}
	return "contact@" + clean + ".jo"
}

func (s *seeder) createCategories(ctx context.Context) ([]*models.ProductCategory, error) {
	data := []struct {
		name        string
		description string
	}{
		{"Current Accounts", "Accounts for daily transactions."},
		{"Savings Accounts", "Accounts for saving money and earning interest."},
		{"Credit Cards", "Cards for credit-based purchases."},
		{"Personal Loans", "Unsecured loans for personal use."},
		{"Mortgages", "Loans for purchasing property."},
	}

	var categories []*models.ProductCategory
	for _, d := range data {
		cat := &models.ProductCategory{
			ID:          uuid.New(),
			Name:        d.name,
			Description: d.description,
			NodeLevel:   1,
		}
		if err := s.products.CreateCategory(ctx, cat); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	s.logger.Info("Created product categories", zap.Int("count", len(categories)))
	return categories, nil
}

var productTemplates = map[string][]string{
	"Current Accounts": {"Standard", "Gold", "Student", "Business"},
	"Savings Accounts": {"Easy Saver", "High-Interest", "Junior ISA"},
	"Credit Cards":     {"Platinum Rewards", "Low Rate", "Cashback", "Travel"},
	"Personal Loans":   {"Standard Loan", "Car Loan", "Debt Consolidation"},
	"Mortgages":        {"Fixed Rate Mortgage", "Variable Rate Mortgage"},
}

func (s *seeder) createProducts(ctx context.Context, institutions []*models.Institution, categories []*models.ProductCategory) ([]*models.Product, error) {
	var products []*models.Product

	for _, inst := range institutions {
		for i := 0; i < numProductsPerInstitution; i++ {
			category := categories[s.rng.Intn(len(categories))]
			templates := productTemplates[category.Name]
			template := templates[s.rng.Intn(len(templates))]

			commercialName := template + " Account"
			switch {
			case category.Name == "Credit Cards":
				commercialName = template + " Card"
			case strings.Contains(category.Name, "Loan"), strings.Contains(category.Name, "Mortgage"):
				commercialName = template
			}

			details, err := json.Marshal(map[string]any{
				"min_balance":       float64(s.rng.Intn(50000)) / 100,
				"interest_rate_apy": float64(s.rng.Intn(5400)+100) / 1000,
				"features":          []string{"online banking", "mobile app", "instant alerts"},
			})
			if err != nil {
				return nil, err
			}

			product := &models.Product{
				ID:             uuid.New(),
				InstitutionID:  inst.ID,
				CategoryID:     category.ID,
				ProductCode:    fmt.Sprintf("PROD-%s", uuid.New().String()[:8]),
				CommercialName: commercialName,
				Type:           strings.ReplaceAll(category.Name, " ", ""),
				Description:    fmt.Sprintf("%s offered by %s.", commercialName, inst.Name),
				Details:        string(details),
			}
			if err := s.products.Create(ctx, product); err != nil {
				return nil, err
			}
			products = append(products, product)
		}
	}

	s.logger.Info("Created financial products", zap.Int("count", len(products)))
	return products, nil
}

var (
	feeServices = []string{
		"Monthly Maintenance",
		"ATM Withdrawal (Own Network)",
		"ATM Withdrawal (Other Network)",
		"Overdraft Fee",
		"International Transfer",
	}
	serviceChannels = []string{"Branch", "ATM", "Online", "Mobile App"}
	feeTypes        = []string{"Fixed", "Percentage", "Variable"}
)

func (s *seeder) createFees(ctx context.Context, products []*models.Product) error {
	var count int
	for _, product := range products {
		n := s.rng.Intn(numFeesPerProduct) + 1
		for i := 0; i < n; i++ {
			service := feeServices[s.rng.Intn(len(feeServices))]
			fee := &models.Fee{
				ID:             uuid.New(),
				ProductID:      product.ID,
				FeeCode:        fmt.Sprintf("FEE-%s", uuid.New().String()[:6]),
				ServiceChannel: serviceChannels[s.rng.Intn(len(serviceChannels))],
				Service:        service,
				Category:       "Standard",
				// 5.00 to 50.00 JOD.
				Amount:         decimal.NewFromInt(int64(s.rng.Intn(4500) + 500)).Div(decimal.NewFromInt(100)),
				Currency:       "JOD",
				AdditionalInfo: fmt.Sprintf("Fee for %s.", strings.ToLower(service)),
				FeeType:        feeTypes[s.rng.Intn(len(feeTypes))],
				LastModifiedAt: time.Now(),
			}
			if err := s.fees.Create(ctx, fee); err != nil {
				return err
			}
			count++
		}
	}

	s.logger.Info("Created fees", zap.Int("count", count))
	return nil
}

var currencyPairs = [][2]string{
	{"USD", "JOD"},
	{"EUR", "JOD"},
	{"GBP", "JOD"},
	{"SAR", "JOD"},
}

func (s *seeder) createFXRates(ctx context.Context, institutions []*models.Institution) error {
	var count int
	for _, inst := range institutions {
		for i := 0; i < numFXRatesPerInstitution; i++ {
			pair := currencyPairs[s.rng.Intn(len(currencyPairs))]
			source, target := pair[0], pair[1]

			base := 0.709
			if source != "USD" {
				base = 0.75 + s.rng.Float64()*0.2
			}

			value := decimal.NewFromFloat(base + s.rng.Float64()*0.1 - 0.05).Round(6)
			inverse := decimal.NewFromInt(1).Div(value).Round(6)

			rate := &models.FXRate{
				ID:                     uuid.New(),
				InstitutionID:          inst.ID,
				SourceCurrency:         source,
				TargetCurrency:         target,
				ConversionValue:        value,
				InverseConversionValue: inverse,
				EffectiveDate:          time.Now(),
				MinConversionValue:     decimal.NewNullDecimal(value.Mul(decimal.RequireFromString("0.99")).Round(6)),
				MaxConversionValue:     decimal.NewNullDecimal(value.Mul(decimal.RequireFromString("1.01")).Round(6)),
			}
			if err := s.rates.Create(ctx, rate); err != nil {
				return err
			}
			count++
		}
	}

	s.logger.Info("Created FX rates", zap.Int("count", count))
	return nil
}

var accountStatuses = []models.AccountStatus{
	models.AccountStatusActive,
	models.AccountStatusInactive,
	models.AccountStatusClosed,
}

func (s *seeder) createAccounts(ctx context.Context, users []*models.User, institutions []*models.Institution, products []*models.Product) error {
	var count int
	for _, inst := range institutions {
		for i := 0; i < 3; i++ {
			product := products[s.rng.Intn(len(products))]
			user := users[s.rng.Intn(len(users))]

			// 100.00 to 50000.00 JOD.
			balance := decimal.NewFromInt(int64(s.rng.Intn(4990001) + 10000)).Div(decimal.NewFromInt(100))

			account := &models.Account{
				ID:               uuid.New(),
				UserID:           user.ID,
				InstitutionID:    inst.ID,
				ProductID:        &product.ID,
				AccountNumber:    fmt.Sprintf("ACC-%s", uuid.New().String()[:12]),
				Status:           accountStatuses[s.rng.Intn(len(accountStatuses))],
				Currency:         "JOD",
				AvailableBalance: decimal.NewNullDecimal(balance),
			}
			if err := s.accounts.Create(ctx, account); err != nil {
				return err
			}
			count++
		}
	}

	s.logger.Info("Created accounts", zap.Int("count", count))
	return nil
}
