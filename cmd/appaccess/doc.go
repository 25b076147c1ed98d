// Command appaccess runs ordinary customer and order traffic against a
// relational database.
//
//	appaccess demo                 # scripted run: register, order, read back, bulk
//	appaccess migrate              # create the customers and orders tables
//	appaccess schema:status
//	appaccess seed [name...]
//	appaccess customer:add --name "John Doe" --email john@example.com ...
//	appaccess customer:show 1
//	appaccess customer:search example.com
//	appaccess order:create 1 --item "Laptop:1:999.99"
//	appaccess order:history 1
//	appaccess bulk 10
//	appaccess export 1
//	appaccess serve
//	appaccess route:list
//
// --driver and --dsn override DB_DRIVER and DATABASE_DSN.
package main
