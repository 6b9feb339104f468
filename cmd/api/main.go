package main

import (
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// 取引の外部参照コード
type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}

	if err := gormDB.AutoMigrate(
		&model.Item{},
		&model.Sale{},
		&model.SaleLine{},
		&model.Purchase{},
		&model.PurchaseLine{},
		&model.Conditional{},
		&model.ConditionalLine{},
		&model.WriteOff{},
		&model.StatusHistoryEntry{},
	); err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	reportRepo := infraRepo.NewReportGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//Usecase生成
	itemUC := usecase.NewItemUsecase(txManager, clock)
	saleUC := usecase.NewSaleUsecase(txManager, clock, idGen)
	purchaseUC := usecase.NewPurchaseUsecase(txManager, clock, idGen)
	conditionalUC := usecase.NewConditionalUsecase(txManager, clock, idGen)
	writeOffUC := usecase.NewWriteOffUsecase(txManager, clock, idGen)
	reportUC := usecase.NewReportUsecase(reportRepo)

	//Handler生成
	itemH := handler.NewItemHandler(itemUC)
	saleH := handler.NewSaleHandler(saleUC)
	purchaseH := handler.NewPurchaseHandler(purchaseUC)
	conditionalH := handler.NewConditionalHandler(conditionalUC)
	writeOffH := handler.NewWriteOffHandler(writeOffUC)
	reportH := handler.NewReportHandler(reportUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, itemH, saleH, purchaseH, conditionalH, writeOffH, reportH); err != nil {
		log.Fatal(err)
	}
}
