package store

// Schema holds the idempotent DDL for the three tables. Order matters:
// projects references users(email) and gallery_images references
// projects(id), both with cascade deletes so removing a user takes the
// whole ownership chain with it.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		name VARCHAR(255),
		company VARCHAR(255),
		phone VARCHAR(255),
		profileComplete BOOLEAN DEFAULT FALSE,
		portfolioSlug VARCHAR(255) UNIQUE,
		profilePictureUrl TEXT,
		bio TEXT,
		website TEXT,
		instagram TEXT,
		twitter TEXT,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id VARCHAR(255) PRIMARY KEY,
		clientName VARCHAR(255) NOT NULL,
		date DATETIME NOT NULL,
		location VARCHAR(255),
		photographer VARCHAR(255),
		status ENUM('Pending', 'InProgress', 'Completed') NOT NULL,
		stage ENUM('Shooting', 'Editing', 'Delivery') NOT NULL,
		income DECIMAL(10, 2) DEFAULT 0.00,
		expenses DECIMAL(10, 2) DEFAULT 0.00,
		paymentStatus ENUM('Unpaid', 'PartiallyPaid', 'Paid') NOT NULL,
		description TEXT,
		imageUrl VARCHAR(1024),
		user_email VARCHAR(255) NOT NULL,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_email) REFERENCES users(email) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS gallery_images (
		id INT AUTO_INCREMENT PRIMARY KEY,
		project_id VARCHAR(255) NOT NULL,
		imageUrl TEXT NOT NULL,
		createdAt TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	)`,
}
