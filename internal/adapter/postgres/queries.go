package postgres

// Manager catalog.

const querySalesTrend = `
	SELECT
		DATE(transaction_date) AS date,
		COUNT(*) AS transaction_count,
		SUM(total_amount) AS daily_revenue,
		AVG(total_amount) AS avg_transaction_value
	FROM sales_transactions
	WHERE transaction_date >= $1 AND transaction_date <= $2
	GROUP BY DATE(transaction_date)
	ORDER BY date`

const queryPeakHours = `
	SELECT
		EXTRACT(HOUR FROM transaction_date) AS hour,
		COUNT(*) AS transaction_count,
		COUNT(DISTINCT customer_id) AS unique_customers
	FROM sales_transactions
	WHERE transaction_date >= $1 AND transaction_date <= $2
	GROUP BY EXTRACT(HOUR FROM transaction_date)
	ORDER BY hour`

const queryTopProducts = `
	SELECT
		p.name AS product_name,
		c.name AS category,
		SUM(sti.quantity) AS total_quantity_sold,
		SUM(sti.total_price) AS total_revenue,
		AVG(sti.unit_price) AS avg_price
	FROM sales_transaction_items sti
	JOIN products p ON sti.product_id = p.id
	JOIN categories c ON p.category_id = c.id
	JOIN sales_transactions st ON sti.transaction_id = st.id
	WHERE st.transaction_date >= $1
	GROUP BY p.id, p.name, c.name
	ORDER BY total_quantity_sold DESC
	LIMIT $2`

const queryInventoryUsage = `
	SELECT
		p.name AS product_name,
		p.current_stock,
		p.reorder_level,
		c.name AS category,
		CASE
			WHEN p.current_stock <= p.reorder_level THEN 'Low Stock'
			WHEN p.current_stock <= p.reorder_level * 1.5 THEN 'Medium Stock'
			ELSE 'High Stock'
		END AS stock_status,
		COALESCE(recent_sales.total_sold_last_week, 0) AS sold_last_week
	FROM products p
	JOIN categories c ON p.category_id = c.id
	LEFT JOIN (
		SELECT sti.product_id, SUM(sti.quantity) AS total_sold_last_week
		FROM sales_transaction_items sti
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1
		GROUP BY sti.product_id
	) recent_sales ON p.id = recent_sales.product_id
	WHERE p.is_active = TRUE
	ORDER BY p.current_stock ASC`

const queryPromotionEffectiveness = `
	SELECT
		p.name AS promotion_name,
		p.promotion_type,
		p.discount_percentage,
		p.start_date,
		p.end_date,
		p.is_active,
		COUNT(DISTINCT pp.product_id) AS products_in_promotion,
		COALESCE(SUM(CASE WHEN sti.promotion_id = p.id THEN sti.total_price ELSE 0 END), 0) AS total_revenue,
		COALESCE(SUM(CASE WHEN sti.promotion_id = p.id THEN sti.discount_applied ELSE 0 END), 0) AS total_discount_given,
		COUNT(DISTINCT CASE WHEN sti.promotion_id = p.id THEN st.id ELSE NULL END) AS transactions_count,
		COALESCE(AVG(CASE WHEN sti.promotion_id = p.id THEN sti.total_price ELSE NULL END), 0) AS avg_transaction_value
	FROM promotions p
	LEFT JOIN promotion_products pp ON p.id = pp.promotion_id
	LEFT JOIN sales_transaction_items sti ON pp.product_id = sti.product_id
	LEFT JOIN sales_transactions st ON sti.transaction_id = st.id
		AND st.transaction_date BETWEEN p.start_date AND p.end_date
	WHERE p.created_at >= $1
	GROUP BY p.id, p.name, p.promotion_type, p.discount_percentage,
		p.start_date, p.end_date, p.is_active
	ORDER BY p.start_date DESC`

const queryForecastData = `
	SELECT
		DATE(transaction_date) AS date,
		SUM(total_amount) AS daily_revenue,
		COUNT(*) AS transaction_count,
		AVG(total_amount) AS avg_transaction_value
	FROM sales_transactions
	WHERE transaction_date >= $1
	GROUP BY DATE(transaction_date)
	ORDER BY date`

const queryProductSalesTrends = `
	WITH product_daily_sales AS (
		SELECT
			p.id,
			p.name AS product_name,
			c.name AS category,
			DATE(st.transaction_date) AS sale_date,
			SUM(sti.quantity) AS daily_quantity,
			SUM(sti.total_price) AS daily_revenue
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1
		GROUP BY p.id, p.name, c.name, DATE(st.transaction_date)
	),
	product_totals AS (
		SELECT
			product_name,
			category,
			SUM(daily_quantity) AS total_quantity,
			SUM(daily_revenue) AS total_revenue,
			AVG(daily_quantity) AS avg_daily_quantity,
			COUNT(DISTINCT sale_date) AS days_with_sales
		FROM product_daily_sales
		GROUP BY product_name, category
		ORDER BY total_quantity DESC
		LIMIT $2
	)
	SELECT
		pds.product_name,
		pds.category,
		pds.sale_date,
		pds.daily_quantity,
		pds.daily_revenue,
		pt.total_quantity,
		pt.avg_daily_quantity,
		pt.days_with_sales
	FROM product_daily_sales pds
	JOIN product_totals pt ON pds.product_name = pt.product_name
	ORDER BY pt.total_quantity DESC, pds.sale_date ASC`

// Store hours run 10:00 to 22:00; the generated series keeps quiet hours
// visible as zero rows.
const queryTrafficHourly = `
	WITH hour_series AS (
		SELECT generate_series(10, 22) AS hour_num
	),
	hourly_data AS (
		SELECT
			EXTRACT(HOUR FROM transaction_date) AS hour_num,
			COUNT(*) AS transaction_count,
			COUNT(DISTINCT customer_id) AS unique_customers,
			SUM(total_amount) AS total_revenue,
			AVG(total_amount) AS avg_transaction_value
		FROM sales_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
			AND EXTRACT(HOUR FROM transaction_date) BETWEEN 10 AND 22
		GROUP BY EXTRACT(HOUR FROM transaction_date)
	)
	SELECT
		hs.hour_num AS time_period,
		hs.hour_num || ':00' AS period_label,
		COALESCE(hd.transaction_count, 0) AS transaction_count,
		COALESCE(hd.unique_customers, 0) AS unique_customers,
		COALESCE(hd.total_revenue, 0) AS total_revenue,
		COALESCE(hd.avg_transaction_value, 0) AS avg_transaction_value
	FROM hour_series hs
	LEFT JOIN hourly_data hd ON hs.hour_num = hd.hour_num
	ORDER BY hs.hour_num`

const queryTrafficDaily = `
	WITH date_series AS (
		SELECT
			($1::date + (series.day_offset * interval '1 day'))::date AS date_val,
			(series.day_offset + 1) AS day_num
		FROM generate_series(0, 6) AS series(day_offset)
	),
	daily_data AS (
		SELECT
			DATE(transaction_date) AS transaction_date,
			COUNT(*) AS transaction_count,
			COUNT(DISTINCT customer_id) AS unique_customers,
			SUM(total_amount) AS total_revenue,
			AVG(total_amount) AS avg_transaction_value
		FROM sales_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY DATE(transaction_date)
	)
	SELECT
		ds.day_num AS time_period,
		'Day ' || ds.day_num AS period_label,
		ds.date_val AS date_info,
		COALESCE(dd.transaction_count, 0) AS transaction_count,
		COALESCE(dd.unique_customers, 0) AS unique_customers,
		COALESCE(dd.total_revenue, 0) AS total_revenue,
		COALESCE(dd.avg_transaction_value, 0) AS avg_transaction_value
	FROM date_series ds
	LEFT JOIN daily_data dd ON ds.date_val = dd.transaction_date
	ORDER BY ds.day_num`

const queryTrafficWeekly = `
	WITH week_series AS (
		SELECT
			generate_series(0, 3) AS week_num,
			$1::date + (generate_series(0, 3) * interval '7 days') AS week_start_date
	),
	weekly_data AS (
		SELECT
			FLOOR((DATE(transaction_date) - $1::date) / 7) AS week_offset,
			COUNT(*) AS transaction_count,
			COUNT(DISTINCT customer_id) AS unique_customers,
			SUM(total_amount) AS total_revenue,
			AVG(total_amount) AS avg_transaction_value
		FROM sales_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
			AND FLOOR((DATE(transaction_date) - $1::date) / 7) BETWEEN 0 AND 3
		GROUP BY FLOOR((DATE(transaction_date) - $1::date) / 7)
	)
	SELECT
		(ws.week_num + 1) AS time_period,
		'Week ' || (ws.week_num + 1) AS period_label,
		ws.week_start_date AS date_info,
		COALESCE(wd.transaction_count, 0) AS transaction_count,
		COALESCE(wd.unique_customers, 0) AS unique_customers,
		COALESCE(wd.total_revenue, 0) AS total_revenue,
		COALESCE(wd.avg_transaction_value, 0) AS avg_transaction_value
	FROM week_series ws
	LEFT JOIN weekly_data wd ON ws.week_num = wd.week_offset
	ORDER BY ws.week_num`

const queryTrafficEightWeek = `
	WITH week_series AS (
		SELECT
			generate_series(0, 7) AS week_num,
			$1::date + (generate_series(0, 7) * interval '7 days') AS week_start_date
	),
	weekly_data AS (
		SELECT
			FLOOR((DATE(transaction_date) - $1::date) / 7) AS week_offset,
			COUNT(*) AS transaction_count,
			COUNT(DISTINCT customer_id) AS unique_customers,
			SUM(total_amount) AS total_revenue,
			AVG(total_amount) AS avg_transaction_value
		FROM sales_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		GROUP BY FLOOR((DATE(transaction_date) - $1::date) / 7)
	)
	SELECT
		(ws.week_num + 1) AS time_period,
		'Week ' || (ws.week_num + 1) AS period_label,
		ws.week_start_date AS date_info,
		COALESCE(wd.transaction_count, 0) AS transaction_count,
		COALESCE(wd.unique_customers, 0) AS unique_customers,
		COALESCE(wd.total_revenue, 0) AS total_revenue,
		COALESCE(wd.avg_transaction_value, 0) AS avg_transaction_value
	FROM week_series ws
	LEFT JOIN weekly_data wd ON ws.week_num = wd.week_offset
	ORDER BY ws.week_num`

// Sales-floor catalog.

const queryTodayDashboard = `
	SELECT
		COUNT(*) AS todays_transactions,
		COALESCE(SUM(total_amount), 0) AS todays_revenue,
		COALESCE(AVG(total_amount), 0) AS avg_transaction_value,
		COUNT(DISTINCT customer_id) AS unique_customers
	FROM sales_transactions
	WHERE DATE(transaction_date) = CURRENT_DATE`

// Items are pre-aggregated per transaction so the join cannot multiply
// revenue.
const queryHourlySalesToday = `
	SELECT
		EXTRACT(HOUR FROM st.transaction_date) AS hour,
		COUNT(*) AS transaction_count,
		SUM(st.total_amount) AS hourly_revenue,
		COALESCE(SUM(items.item_count), 0) AS items_sold
	FROM sales_transactions st
	LEFT JOIN (
		SELECT transaction_id, SUM(quantity) AS item_count
		FROM sales_transaction_items
		GROUP BY transaction_id
	) items ON items.transaction_id = st.id
	WHERE DATE(st.transaction_date) = CURRENT_DATE
	GROUP BY EXTRACT(HOUR FROM st.transaction_date)
	ORDER BY hour`

const queryTodayTopProducts = `
	SELECT
		p.name AS product_name,
		SUM(sti.quantity) AS quantity_sold,
		SUM(sti.total_price) AS revenue
	FROM sales_transaction_items sti
	JOIN products p ON sti.product_id = p.id
	JOIN sales_transactions st ON sti.transaction_id = st.id
	WHERE DATE(st.transaction_date) = CURRENT_DATE
	GROUP BY p.id, p.name
	ORDER BY quantity_sold DESC
	LIMIT $1`

const queryRecentTransactions = `
	SELECT
		TO_CHAR(transaction_date, 'HH24:MI') AS time,
		CONCAT('C', LPAD(customer_id::text, 3, '0')) AS customer_id,
		(SELECT COUNT(*) FROM sales_transaction_items WHERE transaction_id = st.id) AS items,
		total_amount AS total
	FROM sales_transactions st
	WHERE DATE(transaction_date) = CURRENT_DATE
	ORDER BY transaction_date DESC
	LIMIT $1`

const queryCustomerBehavior = `
	SELECT
		c.membership_type,
		COUNT(DISTINCT st.customer_id) AS customer_count,
		AVG(st.total_amount) AS avg_purchase_amount,
		SUM(st.total_amount) AS total_spent,
		COUNT(st.id) AS total_transactions,
		AVG(transaction_items.items_per_transaction) AS avg_items_per_transaction
	FROM sales_transactions st
	LEFT JOIN customers c ON st.customer_id = c.id
	LEFT JOIN (
		SELECT transaction_id, SUM(quantity) AS items_per_transaction
		FROM sales_transaction_items
		GROUP BY transaction_id
	) transaction_items ON st.id = transaction_items.transaction_id
	WHERE st.transaction_date >= $1
	GROUP BY c.membership_type
	ORDER BY total_spent DESC`

const queryPopularProducts = `
	SELECT
		p.name AS product_name,
		c.name AS category,
		SUM(sti.quantity) AS total_sold,
		SUM(sti.total_price) AS total_revenue,
		COUNT(DISTINCT st.customer_id) AS unique_buyers,
		AVG(sti.unit_price) AS avg_selling_price,
		p.cost_price,
		(AVG(sti.unit_price) - p.cost_price) AS profit_margin
	FROM sales_transaction_items sti
	JOIN products p ON sti.product_id = p.id
	JOIN categories c ON p.category_id = c.id
	JOIN sales_transactions st ON sti.transaction_id = st.id
	WHERE st.transaction_date >= $1
	GROUP BY p.id, p.name, c.name, p.cost_price
	ORDER BY total_sold DESC, profit_margin DESC
	LIMIT $2`

const queryActivePromotions = `
	SELECT
		p.name AS promotion_name,
		p.promotion_type,
		p.discount_percentage,
		p.start_date,
		p.end_date,
		COUNT(pp.product_id) AS products_in_promotion
	FROM promotions p
	LEFT JOIN promotion_products pp ON p.id = pp.promotion_id
	WHERE p.is_active = TRUE
		AND CURRENT_DATE BETWEEN p.start_date AND p.end_date
	GROUP BY p.id, p.name, p.promotion_type, p.discount_percentage, p.start_date, p.end_date
	ORDER BY p.end_date`

const queryPromotionImpact = `
	WITH promotion_period AS (
		SELECT start_date, end_date
		FROM promotions
		WHERE id = $1
	),
	before_promotion AS (
		SELECT
			SUM(sti.total_price) AS revenue_before,
			SUM(sti.quantity) AS quantity_before,
			COUNT(DISTINCT st.id) AS transactions_before
		FROM sales_transaction_items sti
		JOIN sales_transactions st ON sti.transaction_id = st.id
		JOIN promotion_products pp ON sti.product_id = pp.product_id
		CROSS JOIN promotion_period pr
		WHERE pp.promotion_id = $1
			AND st.transaction_date BETWEEN (pr.start_date - INTERVAL '30 days') AND (pr.start_date - INTERVAL '1 day')
	),
	during_promotion AS (
		SELECT
			SUM(sti.total_price) AS revenue_during,
			SUM(sti.quantity) AS quantity_during,
			COUNT(DISTINCT st.id) AS transactions_during
		FROM sales_transaction_items sti
		JOIN sales_transactions st ON sti.transaction_id = st.id
		JOIN promotion_products pp ON sti.product_id = pp.product_id
		CROSS JOIN promotion_period pr
		WHERE pp.promotion_id = $1
			AND st.transaction_date BETWEEN pr.start_date AND pr.end_date
	)
	SELECT * FROM before_promotion, during_promotion`

const querySeasonalTrends = `
	SELECT
		EXTRACT(MONTH FROM transaction_date) AS month,
		EXTRACT(YEAR FROM transaction_date) AS year,
		SUM(total_amount) AS monthly_revenue,
		COUNT(*) AS monthly_transactions,
		AVG(total_amount) AS avg_transaction_value
	FROM sales_transactions
	WHERE transaction_date >= $1
	GROUP BY EXTRACT(YEAR FROM transaction_date), EXTRACT(MONTH FROM transaction_date)
	ORDER BY year, month`

const queryBasketPairs = `
	WITH transaction_products AS (
		SELECT
			st.id AS transaction_id,
			array_agg(p.name ORDER BY p.name) AS products
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		JOIN products p ON sti.product_id = p.id
		WHERE st.transaction_date >= $1
		GROUP BY st.id
		HAVING COUNT(DISTINCT p.id) >= 2
	),
	product_pairs AS (
		SELECT
			p1.name AS product_a,
			p2.name AS product_b,
			COUNT(*) AS frequency
		FROM transaction_products tp
		CROSS JOIN LATERAL unnest(tp.products) WITH ORDINALITY AS p1(name, ord1)
		CROSS JOIN LATERAL unnest(tp.products) WITH ORDINALITY AS p2(name, ord2)
		WHERE p1.ord1 < p2.ord2
		GROUP BY p1.name, p2.name
	)
	SELECT
		product_a,
		product_b,
		frequency,
		ROUND(frequency::DECIMAL / (SELECT COUNT(*) FROM transaction_products)::DECIMAL, 3) AS support,
		ROUND(frequency::DECIMAL / COUNT(*) OVER (PARTITION BY product_a), 3) AS confidence
	FROM product_pairs
	WHERE frequency >= $2
	ORDER BY frequency DESC, confidence DESC
	LIMIT 20`

const queryCategoryPerformance = `
	SELECT
		c.name AS category,
		COUNT(DISTINCT st.id) AS total_transactions,
		SUM(sti.quantity) AS total_items_sold,
		SUM(sti.total_price) AS total_sales,
		ROUND(AVG(sti.quantity), 2) AS avg_items_per_transaction,
		ROUND(SUM(sti.total_price) * 100.0 / SUM(SUM(sti.total_price)) OVER (), 2) AS revenue_percentage
	FROM categories c
	JOIN products p ON c.id = p.category_id
	JOIN sales_transaction_items sti ON p.id = sti.product_id
	JOIN sales_transactions st ON sti.transaction_id = st.id
	WHERE st.transaction_date >= $1
	GROUP BY c.id, c.name
	ORDER BY total_sales DESC`

const queryAvgBasketSize = `
	SELECT
		DATE(st.transaction_date) AS date,
		COUNT(DISTINCT st.id) AS total_transactions,
		SUM(sti.quantity) AS total_items,
		ROUND(SUM(sti.quantity)::DECIMAL / COUNT(DISTINCT st.id), 2) AS avg_items
	FROM sales_transactions st
	JOIN sales_transaction_items sti ON st.id = sti.transaction_id
	WHERE st.transaction_date >= $1
	GROUP BY DATE(st.transaction_date)
	ORDER BY date`

// Restocker catalog.

const queryLowStock = `
	SELECT
		p.name AS product_name,
		p.sku,
		c.name AS category,
		p.current_stock,
		p.reorder_level,
		p.max_stock_level,
		s.name AS supplier_name,
		s.contact_person,
		s.phone,
		CASE
			WHEN p.current_stock = 0 THEN 'Out of Stock'
			WHEN p.current_stock <= p.reorder_level THEN 'Critical'
			WHEN p.current_stock <= p.reorder_level * 1.5 THEN 'Low'
			ELSE 'Normal'
		END AS stock_status
	FROM products p
	JOIN categories c ON p.category_id = c.id
	LEFT JOIN suppliers s ON p.supplier_id = s.id
	WHERE p.current_stock <= p.reorder_level * 1.5
		AND p.is_active = TRUE
	ORDER BY
		CASE
			WHEN p.current_stock = 0 THEN 1
			WHEN p.current_stock <= p.reorder_level THEN 2
			ELSE 3
		END,
		p.current_stock ASC`

// $1 is the one-week cutoff, $2 the full lookback window.
const queryHighDemand = `
	SELECT
		p.name AS product_name,
		p.sku,
		c.name AS category,
		p.current_stock,
		p.reorder_level,
		recent_sales.avg_daily_sales,
		recent_sales.total_sales_last_week,
		CASE
			WHEN p.current_stock / NULLIF(recent_sales.avg_daily_sales, 0) <= 7 THEN 'High Demand Risk'
			WHEN p.current_stock / NULLIF(recent_sales.avg_daily_sales, 0) <= 14 THEN 'Medium Demand Risk'
			ELSE 'Low Demand Risk'
		END AS demand_risk,
		CEILING(recent_sales.avg_daily_sales * 30) AS suggested_reorder_quantity
	FROM products p
	JOIN categories c ON p.category_id = c.id
	JOIN (
		SELECT
			sti.product_id,
			AVG(daily_sales.daily_quantity) AS avg_daily_sales,
			SUM(CASE WHEN st.transaction_date >= $1 THEN sti.quantity ELSE 0 END) AS total_sales_last_week
		FROM sales_transaction_items sti
		JOIN sales_transactions st ON sti.transaction_id = st.id
		JOIN (
			SELECT
				sti2.product_id,
				DATE(st2.transaction_date) AS sale_date,
				SUM(sti2.quantity) AS daily_quantity
			FROM sales_transaction_items sti2
			JOIN sales_transactions st2 ON sti2.transaction_id = st2.id
			WHERE st2.transaction_date >= $2
			GROUP BY sti2.product_id, DATE(st2.transaction_date)
		) daily_sales ON sti.product_id = daily_sales.product_id
		WHERE st.transaction_date >= $2
		GROUP BY sti.product_id
		HAVING AVG(daily_sales.daily_quantity) > 0
	) recent_sales ON p.id = recent_sales.product_id
	WHERE p.is_active = TRUE
	ORDER BY
		CASE
			WHEN p.current_stock / NULLIF(recent_sales.avg_daily_sales, 0) <= 7 THEN 1
			WHEN p.current_stock / NULLIF(recent_sales.avg_daily_sales, 0) <= 14 THEN 2
			ELSE 3
		END,
		recent_sales.avg_daily_sales DESC`

const queryMovementTrends = `
	SELECT
		c.name AS category,
		SUM(CASE WHEN im.movement_type = 'outbound' THEN im.quantity ELSE 0 END) AS total_outbound,
		SUM(CASE WHEN im.movement_type = 'inbound' THEN im.quantity ELSE 0 END) AS total_inbound,
		COUNT(DISTINCT im.product_id) AS products_with_movement,
		AVG(CASE WHEN im.movement_type = 'outbound' THEN im.quantity ELSE NULL END) AS avg_outbound_quantity,
		AVG(CASE WHEN im.movement_type = 'inbound' THEN im.quantity ELSE NULL END) AS avg_inbound_quantity
	FROM inventory_movements im
	JOIN products p ON im.product_id = p.id
	JOIN categories c ON p.category_id = c.id
	WHERE im.movement_date >= $1
	GROUP BY c.id, c.name
	ORDER BY total_outbound DESC`

// The trend variants share one shape: a generated period series LEFT JOINed
// to aggregated sales so quiet periods still chart as zero. Each has a %s
// slot for an optional product or category filter.

const queryTrendDaily = `
	WITH date_series AS (
		SELECT generate_series($1::date, $2::date, '1 day'::interval)::date AS date_val
	),
	daily_data AS (
		SELECT
			DATE(st.transaction_date) AS transaction_date,
			COUNT(DISTINCT st.id) AS transaction_count,
			SUM(sti.quantity) AS total_quantity,
			SUM(sti.total_price) AS total_revenue,
			AVG(st.total_amount) AS avg_transaction_value,
			COUNT(DISTINCT st.customer_id) AS unique_customers
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		JOIN products p ON sti.product_id = p.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2%s
		GROUP BY DATE(st.transaction_date)
	)
	SELECT
		ds.date_val AS period_date,
		TO_CHAR(ds.date_val, 'Mon DD') AS period_label,
		COALESCE(dd.transaction_count, 0) AS transaction_count,
		COALESCE(dd.total_quantity, 0) AS total_quantity,
		COALESCE(dd.total_revenue, 0) AS total_revenue,
		COALESCE(dd.avg_transaction_value, 0) AS avg_transaction_value,
		COALESCE(dd.unique_customers, 0) AS unique_customers
	FROM date_series ds
	LEFT JOIN daily_data dd ON ds.date_val = dd.transaction_date
	ORDER BY ds.date_val`

const queryTrendWeekly = `
	WITH week_series AS (
		SELECT date_trunc('week', generate_series($1::date, $2::date, '1 week'::interval)) AS week_start
	),
	weekly_data AS (
		SELECT
			date_trunc('week', st.transaction_date) AS week_start,
			COUNT(DISTINCT st.id) AS transaction_count,
			SUM(sti.quantity) AS total_quantity,
			SUM(sti.total_price) AS total_revenue,
			AVG(st.total_amount) AS avg_transaction_value,
			COUNT(DISTINCT st.customer_id) AS unique_customers
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		JOIN products p ON sti.product_id = p.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2%s
		GROUP BY date_trunc('week', st.transaction_date)
	)
	SELECT
		ws.week_start AS period_date,
		TO_CHAR(ws.week_start, 'Week of Mon DD') AS period_label,
		COALESCE(wd.transaction_count, 0) AS transaction_count,
		COALESCE(wd.total_quantity, 0) AS total_quantity,
		COALESCE(wd.total_revenue, 0) AS total_revenue,
		COALESCE(wd.avg_transaction_value, 0) AS avg_transaction_value,
		COALESCE(wd.unique_customers, 0) AS unique_customers
	FROM week_series ws
	LEFT JOIN weekly_data wd ON ws.week_start = wd.week_start
	ORDER BY ws.week_start`

const queryTrendMonthly = `
	WITH month_series AS (
		SELECT date_trunc('month', generate_series($1::date, $2::date, '1 month'::interval)) AS month_start
	),
	monthly_data AS (
		SELECT
			date_trunc('month', st.transaction_date) AS month_start,
			COUNT(DISTINCT st.id) AS transaction_count,
			SUM(sti.quantity) AS total_quantity,
			SUM(sti.total_price) AS total_revenue,
			AVG(st.total_amount) AS avg_transaction_value,
			COUNT(DISTINCT st.customer_id) AS unique_customers
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		JOIN products p ON sti.product_id = p.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2%s
		GROUP BY date_trunc('month', st.transaction_date)
	)
	SELECT
		ms.month_start AS period_date,
		TO_CHAR(ms.month_start, 'Mon YYYY') AS period_label,
		COALESCE(md.transaction_count, 0) AS transaction_count,
		COALESCE(md.total_quantity, 0) AS total_quantity,
		COALESCE(md.total_revenue, 0) AS total_revenue,
		COALESCE(md.avg_transaction_value, 0) AS avg_transaction_value,
		COALESCE(md.unique_customers, 0) AS unique_customers
	FROM month_series ms
	LEFT JOIN monthly_data md ON ms.month_start = md.month_start
	ORDER BY ms.month_start`

const queryTrendQuarterly = `
	WITH quarter_series AS (
		SELECT date_trunc('quarter', generate_series($1::date, $2::date, '3 months'::interval)) AS quarter_start
	),
	quarterly_data AS (
		SELECT
			date_trunc('quarter', st.transaction_date) AS quarter_start,
			COUNT(DISTINCT st.id) AS transaction_count,
			SUM(sti.quantity) AS total_quantity,
			SUM(sti.total_price) AS total_revenue,
			AVG(st.total_amount) AS avg_transaction_value,
			COUNT(DISTINCT st.customer_id) AS unique_customers
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		JOIN products p ON sti.product_id = p.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2%s
		GROUP BY date_trunc('quarter', st.transaction_date)
	)
	SELECT
		qs.quarter_start AS period_date,
		'Q' || EXTRACT(QUARTER FROM qs.quarter_start) || ' ' || EXTRACT(YEAR FROM qs.quarter_start) AS period_label,
		COALESCE(qd.transaction_count, 0) AS transaction_count,
		COALESCE(qd.total_quantity, 0) AS total_quantity,
		COALESCE(qd.total_revenue, 0) AS total_revenue,
		COALESCE(qd.avg_transaction_value, 0) AS avg_transaction_value,
		COALESCE(qd.unique_customers, 0) AS unique_customers
	FROM quarter_series qs
	LEFT JOIN quarterly_data qd ON qs.quarter_start = qd.quarter_start
	ORDER BY qs.quarter_start`

// $3 is the start of the equally long period preceding $1.
const querySalesSummary = `
	WITH sales_metrics AS (
		SELECT
			COUNT(DISTINCT st.id) AS total_transactions,
			SUM(sti.total_price) AS total_revenue,
			AVG(st.total_amount) AS avg_transaction_value,
			COUNT(DISTINCT st.customer_id) AS unique_customers,
			SUM(sti.quantity) AS total_items_sold,
			COUNT(DISTINCT sti.product_id) AS unique_products_sold
		FROM sales_transactions st
		JOIN sales_transaction_items sti ON st.id = sti.transaction_id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
	),
	daily_averages AS (
		SELECT
			AVG(daily_stats.daily_revenue) AS avg_daily_revenue,
			AVG(daily_stats.daily_transactions) AS avg_daily_transactions
		FROM (
			SELECT
				DATE(st.transaction_date) AS sale_date,
				SUM(sti.total_price) AS daily_revenue,
				COUNT(DISTINCT st.id) AS daily_transactions
			FROM sales_transactions st
			JOIN sales_transaction_items sti ON st.id = sti.transaction_id
			WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
			GROUP BY DATE(st.transaction_date)
		) daily_stats
	),
	growth_comparison AS (
		SELECT
			COALESCE(current_period.revenue, 0) AS current_revenue,
			COALESCE(previous_period.revenue, 0) AS previous_revenue,
			CASE
				WHEN previous_period.revenue > 0 THEN
					((current_period.revenue - previous_period.revenue) / previous_period.revenue) * 100
				ELSE 0
			END AS revenue_growth_percentage
		FROM (
			SELECT SUM(sti.total_price) AS revenue
			FROM sales_transactions st
			JOIN sales_transaction_items sti ON st.id = sti.transaction_id
			WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
		) current_period
		CROSS JOIN (
			SELECT SUM(sti.total_price) AS revenue
			FROM sales_transactions st
			JOIN sales_transaction_items sti ON st.id = sti.transaction_id
			WHERE st.transaction_date >= $3 AND st.transaction_date < $1
		) previous_period
	)
	SELECT
		sm.*,
		da.avg_daily_revenue,
		da.avg_daily_transactions,
		gc.revenue_growth_percentage
	FROM sales_metrics sm
	CROSS JOIN daily_averages da
	CROSS JOIN growth_comparison gc`

// %[1]s is the date_trunc granularity, %[2]s the TO_CHAR label format.
const queryCategoryTrends = `
	WITH top_categories AS (
		SELECT
			c.id,
			c.name AS category_name,
			SUM(sti.total_price) AS total_revenue
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
		GROUP BY c.id, c.name
		ORDER BY total_revenue DESC
		LIMIT $3
	),
	period_data AS (
		SELECT
			c.name AS category_name,
			date_trunc('%[1]s', st.transaction_date) AS period_date,
			TO_CHAR(date_trunc('%[1]s', st.transaction_date), '%[2]s') AS period_label,
			SUM(sti.total_price) AS revenue,
			SUM(sti.quantity) AS quantity
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
			AND c.id IN (SELECT id FROM top_categories)
		GROUP BY c.name, date_trunc('%[1]s', st.transaction_date)
	)
	SELECT
		tc.category_name,
		periods.period_date,
		periods.period_label,
		COALESCE(pd.revenue, 0) AS revenue,
		COALESCE(pd.quantity, 0) AS quantity
	FROM top_categories tc
	CROSS JOIN (
		SELECT DISTINCT period_date, period_label
		FROM period_data
	) periods
	LEFT JOIN period_data pd ON tc.category_name = pd.category_name
		AND periods.period_date = pd.period_date
	ORDER BY tc.total_revenue DESC, periods.period_date`

// $1..$2 bound the current period, $4..$5 the comparison period, $3 caps how
// many products are ranked.
const queryProductComparison = `
	WITH top_products AS (
		SELECT
			p.id,
			p.name AS product_name,
			c.name AS category_name,
			SUM(sti.total_price) AS total_revenue
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
		GROUP BY p.id, p.name, c.name
		ORDER BY total_revenue DESC
		LIMIT $3
	),
	current_period_sales AS (
		SELECT
			p.id AS product_id,
			COUNT(DISTINCT st.id) AS current_transactions,
			SUM(sti.quantity) AS current_quantity,
			SUM(sti.total_price) AS current_revenue,
			AVG(sti.unit_price) AS current_avg_price
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $1 AND st.transaction_date <= $2
			AND p.id IN (SELECT id FROM top_products)
		GROUP BY p.id
	),
	comparison_period_sales AS (
		SELECT
			p.id AS product_id,
			COUNT(DISTINCT st.id) AS comparison_transactions,
			SUM(sti.quantity) AS comparison_quantity,
			SUM(sti.total_price) AS comparison_revenue,
			AVG(sti.unit_price) AS comparison_avg_price
		FROM sales_transaction_items sti
		JOIN products p ON sti.product_id = p.id
		JOIN sales_transactions st ON sti.transaction_id = st.id
		WHERE st.transaction_date >= $4 AND st.transaction_date <= $5
			AND p.id IN (SELECT id FROM top_products)
		GROUP BY p.id
	)
	SELECT
		tp.product_name,
		tp.category_name,
		COALESCE(cps.current_transactions, 0) AS current_transactions,
		COALESCE(cps.current_quantity, 0) AS current_quantity,
		COALESCE(cps.current_revenue, 0) AS current_revenue,
		COALESCE(cps.current_avg_price, 0) AS current_avg_price,
		COALESCE(cmps.comparison_transactions, 0) AS comparison_transactions,
		COALESCE(cmps.comparison_quantity, 0) AS comparison_quantity,
		COALESCE(cmps.comparison_revenue, 0) AS comparison_revenue,
		COALESCE(cmps.comparison_avg_price, 0) AS comparison_avg_price,
		CASE
			WHEN cmps.comparison_revenue > 0 THEN
				((cps.current_revenue - cmps.comparison_revenue) / cmps.comparison_revenue) * 100
			ELSE 0
		END AS revenue_change_percent,
		CASE
			WHEN cmps.comparison_quantity > 0 THEN
				((cps.current_quantity - cmps.comparison_quantity) / cmps.comparison_quantity) * 100
			ELSE 0
		END AS quantity_change_percent,
		CASE
			WHEN cmps.comparison_transactions > 0 THEN
				((cps.current_transactions - cmps.comparison_transactions) / cmps.comparison_transactions) * 100
			ELSE 0
		END AS transaction_change_percent
	FROM top_products tp
	LEFT JOIN current_period_sales cps ON tp.id = cps.product_id
	LEFT JOIN comparison_period_sales cmps ON tp.id = cmps.product_id
	ORDER BY tp.total_revenue DESC`

// Schema introspection for the ad-hoc query surface.

const queryListUserTables = `
	SELECT
		t.table_name,
		COALESCE(s.n_live_tup, 0) AS row_estimate,
		COALESCE(pg_catalog.obj_description(
			(quote_ident(t.table_schema) || '.' || quote_ident(t.table_name))::regclass, 'pg_class'
		), '') AS comment
	FROM information_schema.tables t
	LEFT JOIN pg_stat_user_tables s
		ON s.schemaname = t.table_schema AND s.relname = t.table_name
	WHERE t.table_schema = 'public'
		AND t.table_type = 'BASE TABLE'
	ORDER BY t.table_name`

const queryTableColumns = `
	SELECT
		c.column_name,
		c.data_type,
		c.is_nullable = 'YES' AS nullable,
		COALESCE(c.column_default, '') AS column_default,
		EXISTS (
			SELECT 1
			FROM pg_index i
			JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
			WHERE i.indrelid = (quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass
				AND i.indisprimary
				AND a.attname = c.column_name
		) AS is_primary_key
	FROM information_schema.columns c
	WHERE c.table_schema = 'public' AND c.table_name = $1
	ORDER BY c.ordinal_position`
