package hold

import "github.com/m04kA/SMC-ConsoleRental/pkg/dbmetrics"

// DBExecutor *dbmetrics.DB или *sql.DB; транзакция берется из контекста
type DBExecutor = dbmetrics.DBExecutor
